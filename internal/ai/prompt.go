package ai

import "strings"

// SystemPrompt is prepended to every chat and follow-up prompt.
const SystemPrompt = `You are an expert C/C++ programming assistant integrated into a code editor.
Your role is to help users write, debug, and improve their C and C++ code.

Guidelines:
- Provide clear, concise explanations
- When showing code, use proper C/C++ syntax
- Point out potential bugs, memory leaks, or undefined behavior
- Suggest best practices and optimizations
- Be helpful with both C and C++ (all standards from C89 to C23 and C++11 to C++23)
- If asked about compilation, consider common compilers: GCC, Clang, MSVC, MinGW

Keep responses focused and practical. If code is provided, analyze it carefully before responding.`

const suggestionTemplate = `Analyze the following C/C++ code and provide 3-5 specific suggestions for improvement.
Focus on:
1. Bug fixes or potential issues
2. Performance optimizations
3. Code style and readability
4. Best practices
5. Security concerns

Format each suggestion as a single line starting with an emoji:
🐛 for bugs
⚡ for performance
📝 for style
✨ for best practices
🔒 for security

Code to analyze:
` + "```cpp\n%CODE%\n```" + `

Provide only the suggestions, one per line, no additional explanation.`

// ChatPrompt builds the prompt for a new question. conv is the state before
// the question is recorded.
func ChatPrompt(conv Conversation, text, code string) string {
	var b strings.Builder
	b.WriteString(SystemPrompt)
	b.WriteString("\n\n")
	if conv.Transcript != "" {
		b.WriteString("Previous conversation:\n")
		b.WriteString(conv.Transcript)
		b.WriteString("\n\n")
	}
	if code != "" {
		writeCode(&b, "Current code in editor:\n", code)
	}
	b.WriteString("User question: ")
	b.WriteString(text)
	return b.String()
}

// FollowUpPrompt builds the prompt for a follow-up. The history section is
// always present, and the code comes from the last chat message.
func FollowUpPrompt(conv Conversation, text string) string {
	var b strings.Builder
	b.WriteString(SystemPrompt)
	b.WriteString("\n\nConversation history:\n")
	b.WriteString(conv.Transcript)
	b.WriteString("\n\n")
	if conv.CodeContext != "" {
		writeCode(&b, "Current code:\n", conv.CodeContext)
	}
	b.WriteString("Follow-up question: ")
	b.WriteString(text)
	return b.String()
}

// SuggestionPrompt asks for one-line improvement hints about code.
func SuggestionPrompt(code string) string {
	return strings.Replace(suggestionTemplate, "%CODE%", code, 1)
}

func writeCode(b *strings.Builder, heading, code string) {
	b.WriteString(heading)
	b.WriteString("```cpp\n")
	b.WriteString(code)
	b.WriteString("\n```\n\n")
}

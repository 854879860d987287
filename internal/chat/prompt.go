package chat

import "fmt"

const executorPrompt = `# Voice-Enabled Coding Assistant

You are a helpful assistant that's being used via voice commands. Execute the user's request using your tools.

When asked to read files, return the entire file content.

%s

Now help the user with their latest request.`

// BuildExecutorPrompt renders the prompt the coding agent CLI is invoked
// with, embedding the formatted conversation history.
func BuildExecutorPrompt(formattedHistory string) string {
	return fmt.Sprintf(executorPrompt, formattedHistory)
}

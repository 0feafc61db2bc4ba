package chat

import "fmt"

// FallbackReply is returned to the user when the provider call fails.
const FallbackReply = "I'm sorry, I'm having trouble processing your request right now. Please try again later."

const systemPromptTemplate = `You are a helpful customer support assistant for an e-commerce clothing website.
You have access to the following context about the business:
%s

Your role is to:
1. Help customers with product inquiries
2. Provide order status information
3. Answer questions about inventory and availability
4. Assist with general customer service queries
5. Ask clarifying questions when needed to provide accurate information

Always be polite, professional, and helpful. If you don't have enough information to answer a question accurately, ask for clarification.`

// SystemPrompt builds the system message embedding the catalog context line.
func SystemPrompt(dbContext string) string {
	return fmt.Sprintf(systemPromptTemplate, dbContext)
}

// ContextLine renders an aggregation result into the line injected into the
// system prompt. A degraded result produces a fixed placeholder so the
// assistant still answers from conversation history alone.
func ContextLine(result *ContextResult) string {
	if result == nil || result.Degraded {
		return "Database Context: " + DegradedSummary
	}
	encoded, err := result.MarshalJSON()
	if err != nil {
		return "Database Context: " + DegradedSummary
	}
	return "Database Context: " + string(encoded)
}

package convo

// systemPrompt grounds the model on the connected knowledge base.
const systemPrompt = "You are a helpful and knowledgeable AI voice assistant designed to answer questions based on information in the connected search index." +
	" Your responses are grounded in the data from the search index. Do not hallucinate or make up information that is not present in the search results." +
	" Your primary goal is to provide accurate, helpful answers based solely on the retrieved information." +
	" You do not cite document numbers in your responses." +
	"Key Guidelines:" +
	"- Greeting: Start each interaction with a warm and professional greeting." +
	"- Information: Provide clear, concise answers based on the search index data." +
	"- Transparency: If you don't have information on a topic, clearly state that you don't have that information in your knowledge base." +
	"- Stay focused: Keep responses relevant to the information in the search index." +
	"- Conversational: Maintain a natural, conversational tone while being informative." +
	"- Brevity: Keep responses concise and to the point, suitable for voice communication." +
	"For questions outside your knowledge base:" +
	"- Politely explain that you don't have that specific information." +
	"- Avoid making up answers or speculating beyond the data available to you." +
	"Closing: End the interaction professionally, asking if there's anything else you can help with."

// reminderPrompt is appended to the history before every model call.
const reminderPrompt = "Reminder: You are a voice assistant providing information from a knowledge base. Keep your answers factual, based only on the search results, and appropriate for a voice conversation."

// RoleKeywords maps utterance keywords to an interview role.
type RoleKeywords struct {
	Keywords []string
	Name     string
	State    State
}

// Prompts holds every caller-facing text plus the keyword tables. All
// of it is a localizable resource; none of it is part of the state
// contract.
type Prompts struct {
	AssistantName string
	SystemPrompt  string
	Reminder      string

	Greeting        string
	ConsentReprompt string
	ConsentUnclear  string
	ConsentThanks   string
	RolePrompt      string
	Decline         string
	Goodbye         string
	NoResponse      string
	TryAgain        string
	ProcessingError string

	EndCallKeywords []string
	Roles           []RoleKeywords
	FallbackRole    string
}

// DefaultPrompts returns the English prompt set for the knowledge
// transfer interview persona.
func DefaultPrompts() Prompts {
	return Prompts{
		AssistantName: "Sophia",
		SystemPrompt:  systemPrompt,
		Reminder:      reminderPrompt,

		Greeting:        "Hello! I'm Sophia, a knowledge transfer assistant working with your company to help prepare training materials. Thank you so much for taking the time. Before we start, I would like to ask if it is okay that this conversation will be recorded and processed using AI?",
		ConsentReprompt: "I didn't hear your response. To proceed with the interview, I need your consent. Is it okay if this conversation is recorded and processed using AI? Please say yes or no.",
		ConsentUnclear:  "I'm sorry, I didn't understand your response. Could you please clearly say 'yes' if you consent to this conversation being recorded and processed, or 'no' if you don't consent?",
		ConsentThanks:   "Thank you for your consent. Now, I'd like to know which role you have experience in: Receptionist, Secretary, or Healthcare Assistant?",
		RolePrompt:      "Let me ask you about your role. Could you tell me which of these roles you have experience in: Receptionist, Secretary, or Healthcare Assistant?",
		Decline:         "I understand and respect your decision. We cannot proceed without your consent. Thank you for your time, and goodbye.",
		Goodbye:         "Thank you so much for sharing your knowledge and experience! This information will be incredibly helpful. I appreciate your time today. Goodbye!",
		NoResponse:      "I'm sorry, I didn't hear anything. Could you please respond so we can continue our conversation?",
		TryAgain:        "I'm sorry, I'm having trouble understanding. Could you please try speaking again?",
		ProcessingError: "I'm sorry, I'm having trouble processing your response. Could we try again?",

		EndCallKeywords: []string{"goodbye", "bye", "end this call", "hang up"},
		Roles: []RoleKeywords{
			{Keywords: []string{"receptionist"}, Name: "receptionist", State: StateRoleReceptionist},
			{Keywords: []string{"secretary"}, Name: "secretary", State: StateRoleSecretary},
			{Keywords: []string{"healthcare", "health care", "assistant"}, Name: "healthcare assistant", State: StateRoleHealthcare},
		},
		FallbackRole: "general participant",
	}
}

package flow

// Event is an inbound conversation event, normalized by the transport. Every
// event carries the identity of the conversant that produced it.
type Event interface {
	UserID() int64
}

// TextInput is a free-text message.
type TextInput struct {
	User int64
	Text string
}

func (e TextInput) UserID() int64 { return e.User }

// ChoiceInput is a closed-choice selection (button press).
type ChoiceInput struct {
	User  int64
	Token string
}

func (e ChoiceInput) UserID() int64 { return e.User }

// AttachmentInput is a photo attachment.
type AttachmentInput struct {
	User  int64
	Bytes []byte
}

func (e AttachmentInput) UserID() int64 { return e.User }

// CommandInput is a slash command. Name arrives without the leading slash.
type CommandInput struct {
	User int64
	Name string
}

func (e CommandInput) UserID() int64 { return e.User }

// Choice is one selectable token of a closed-choice prompt.
type Choice struct {
	Label string
	Token string
}

// Output is a reply produced by the engine. Final outputs are
// acknowledgments that expect no further input; non-final outputs are
// prompts, optionally with a closed choice set.
type Output struct {
	Text    string
	Choices []Choice
	Final   bool
}

// Prompt builds a non-terminal output.
func Prompt(text string, choices ...Choice) Output {
	return Output{Text: text, Choices: choices}
}

// Ack builds a terminal acknowledgment.
func Ack(text string) Output {
	return Output{Text: text, Final: true}
}

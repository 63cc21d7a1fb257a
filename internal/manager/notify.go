package manager

//go:generate mockgen -source=notify.go -destination=mocks/mocks.go -package=mocks Notifier,Confirmer

import "context"

// Notifier shows transient success and error messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Prompt is the content of a confirmation dialog.
type Prompt struct {
	Title       string
	Text        string
	ConfirmText string
	CancelText  string
}

// DeletePrompt is shown before a record is removed.
var DeletePrompt = Prompt{
	Title:       "Are you sure?",
	Text:        "You won't be able to revert this!",
	ConfirmText: "Yes, delete it!",
	CancelText:  "Cancel",
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// Answer is a Confirmer with a fixed reply, for flows where the user has
// already answered (a submitted confirmation form).
type Answer bool

func (a Answer) Confirm(context.Context, Prompt) (bool, error) {
	return bool(a), nil
}

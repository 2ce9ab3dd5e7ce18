package conversation

import "context"

// Button is one inline option. Data comes back to Engine.OnButton.
type Button struct {
	Label string
	Data  string
}

// Menu is a message with inline options.
type Menu struct {
	Text string
	// HTML marks Text as HTML formatted.
	HTML bool
	// Fresh asks for a new message instead of replacing the one the user
	// clicked.
	Fresh bool
	Rows  [][]Button
}

// Document is a file sent to the user.
type Document struct {
	Name    string
	Caption string
	Data    []byte
}

// Transport delivers engine output to the chat.
type Transport interface {
	RenderMenu(ctx context.Context, chatID int64, menu Menu) error
	SendDocument(ctx context.Context, chatID int64, doc Document) error
	Notify(ctx context.Context, chatID int64, text string) error
}

// User identifies who sent an input and where replies go.
type User struct {
	ID     int64
	ChatID int64
}

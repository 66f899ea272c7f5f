package conversation

// User-facing texts.
const (
	// ErrorText is appended whenever a chat turn fails, whatever the cause.
	ErrorText = "מצטער, משהו השתבש בהתקשרות לשרת."

	// EmptyReplyText stands in for a reply without a message.
	EmptyReplyText = "…"

	// LoginPromptText accompanies the login action under ShowLogin.
	LoginPromptText = "מעולה! כדי להמשיך ולבנות את הקמפיין, התחבר עם חשבון הפייסבוק שלך."
)

// DefaultPlaceholders are the rotating input hints.
var DefaultPlaceholders = []string{
	"ספר לי מה תרצה לשווק...",
	"תאר את המוצר או השירות שלך...",
	"מי קהל היעד שלך?...",
	"מה המטרה השיווקית שלך?...",
}

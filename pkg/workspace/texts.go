package workspace

// User-facing texts.
const (
	WelcomeText         = "היי! אני הקמפיינר האישי שלך. ספר לי על העסק שלך, ואבנה עבורך אסטרטגיה שיווקית ומודעות שמביאות לקוחות משלמים."
	ThinkingText        = "חושב..."
	BuildingText        = "בונה את האסטרטגיה שלך..."
	UploadPromptText    = "העלה תמונות או סרטונים של המוצר שלך, ואבנה עבורך אסטרטגיית קמפיין:"
	UploadConfirmText   = "המדיה הועלתה בהצלחה:"
	StrategyReadyText   = "הנה האסטרטגיה שבניתי עבורך! אפשר לערוך כל מודעה, וכשהכל מוכן לאשר את הקמפיין."
	StrategyFailedText  = "לא הצלחתי לבנות אסטרטגיה הפעם. נסה להעלות את המדיה שוב או לספר לי עוד על העסק."
	CampaignSavedText   = "הקמפיין נשמר בהצלחה! מזהה קמפיין: %s"
	CampaignFailedText  = "שמירת הקמפיין נכשלה. נסה שוב בעוד רגע."
	LoginRequiredText   = "כדי להמשיך צריך להתחבר עם חשבון הפייסבוק שלך."
	SampleAdText        = "הנה דוגמה למודעה שלך! אתה יכול לגרור תמונה או סרטון לשנות את המדיה, ולערוך את הטקסטים:"
	sampleHeadline      = "כותרת מושכת שתגרום ללקוחות שלך ללחוץ"
	samplePrimaryText   = "זה הטקסט הראשי של המודעה שלך. כאן תספר על המוצר או השירות בצורה מעניינת ומושכת!"
	sampleButtonText    = "לחץ כאן"
	errAllFieldsMissing = "כל השדות חובה"
	errInvalidEmail     = "כתובת אימייל לא תקינה"
	errInvalidPhone     = "מספר טלפון ישראלי לא תקין. השתמש בפורמט: 050-1234567 או 051234567"
)

// QuickAction is a shortcut offered on an empty workspace.
type QuickAction struct {
	Name    string
	Label   string
	Text    string
	Enabled bool
}

// Quick action names.
const (
	ActionCreateAd    = "create_ad"
	ActionPerformance = "check_performance"
	ActionImprove     = "improve_campaign"
	ActionTips        = "tips"
)

// QuickActions lists the shortcuts in display order.
var QuickActions = []QuickAction{
	{Name: ActionPerformance, Label: "📊 בדוק ביצועים", Text: "בדוק את ביצועי הקמפיין שלי"},
	{Name: ActionImprove, Label: "✨ שפר קמפיין", Text: "אני רוצה לשפר את הקמפיין הנוכחי"},
	{Name: ActionCreateAd, Label: "🎯 צור מודעה", Enabled: true},
	{Name: ActionTips, Label: "💡 עצות", Text: "תן לי עצות לשיפור"},
}

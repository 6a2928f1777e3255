package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const welcomeText = `🎵 *Welcome to the media and files bot!*

*What I can do:*

📹 *YouTube to audio:*
Send a YouTube link and I will convert it to MP3.

📚 *Upload files to Drive:*
Send a document (PDF, EPUB, ...) and I will upload it to Drive.

*Supported links:*
• youtube.com/watch?v=...
• youtu.be/...
• youtube.com/shorts/...

Go ahead! 🚀`

const helpText = `*How to use:*

*🎵 YouTube conversion:*
1. Copy a video link from YouTube
2. Paste it here and send it
3. Receive the audio file!

*📚 File upload:*
1. Send a PDF, EPUB or any other document
2. It gets uploaded to Drive automatically

*Commands:*
/start - start the bot
/help - show this help`

const unknownText = "🤔 Send me a YouTube link or a file to upload!\nUse /help for details."

const (
	downloadingText = "⏳ Downloading and converting the video, hold on..."
	sendingText     = "📤 Sending the file..."
	uploadingText   = "☁️ Uploading to Google Drive..."
)

func sizeMB(size int64) float64 {
	return float64(size) / (1 << 20)
}

// audioFinalStatus builds the one terminal edit for the audio flow. The four
// delivery outcomes each get a distinct message; which attempts were planned
// decides how a miss is phrased.
func audioFinalStatus(plan Plan, directOK, cloudOK bool, size int64, link string) (text, parseMode string) {
	if !plan.AttemptDirect && !plan.AttemptCloud {
		return fmt.Sprintf("❌ File too large (%.1f MB), no cloud destination configured.\nSet a Drive folder to handle large files.", sizeMB(size)), ""
	}

	switch ResultOutcome(directOK, cloudOK) {
	case DeliveredBoth:
		return fmt.Sprintf("✅ Done!\n• The file was sent to you\n• [Drive link](%s)", link), tgbotapi.ModeMarkdown
	case DeliveredDirect:
		if plan.AttemptCloud {
			return "✅ File sent!\n⚠️ Drive upload failed (check the Drive configuration).", ""
		}
		return "✅ Audio sent successfully!", ""
	case DeliveredCloud:
		if plan.AttemptDirect {
			return fmt.Sprintf("✅ Uploaded to Drive!\n⚠️ Direct delivery failed.\n🔗 [Download here](%s)", link), tgbotapi.ModeMarkdown
		}
		return fmt.Sprintf("✅ Uploaded to Drive!\n📁 File too large for direct delivery (%.1f MB)\n🔗 [Download here](%s)", sizeMB(size), link), tgbotapi.ModeMarkdown
	default:
		if plan.AttemptCloud && plan.AttemptDirect {
			return "❌ Delivery failed: could not send the file or upload it to Drive.", ""
		}
		if plan.AttemptCloud {
			return fmt.Sprintf("❌ Drive upload failed and the file is too large for direct delivery (%.1f MB).", sizeMB(size)), ""
		}
		return "❌ Failed to send the audio file.", ""
	}
}

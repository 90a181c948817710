package bot

// User-facing texts. The channel username is interpolated where the
// deployment variants differ.
const (
	msgVerified = "🎉 You have successfully verified! You can use the bot for the next 12 hours."

	msgSubscribeStart = "❗️ Please subscribe to the channel and click /start again to use this bot."
	msgSubscribeLink  = "❗️ Please subscribe to the channel to use this bot."

	msgWelcomeFmt = "Hello, I am a bot to download videos from Terabox.\n\nJust send me the Terabox link and I will start downloading it for you.\n\nJoin %s For More Updates"

	msgTokenExpired = "Hello,\n\nIt seems like your Ads token has expired. Please refresh your token and try again.\n\nToken Timeout: 12 hours\n\nWhat is a token?\n\nThis is an Ads token. After viewing 1 ad, you can utilize the bot for the next 12 hours.\n\nKeep the interactions going smoothly 🚀"

	msgRequesting  = "🔄 Requesting API..."
	msgDownloading = "⬇️ Downloading the video..."
	msgUploading   = "⬆️ Uploading the video..."
	msgFailed      = "❌ Failed to process the link."
	msgCaptionFmt  = "🎥 Your video is downloaded\n\nJoin %s For More Updates"

	msgCooldownFmt = "⏳ Please wait %d seconds before downloading another video!"

	msgStatsFmt   = "📊 Total users: %d\n✅ Verified users: %d\n🔗 Processed links: %d"
	msgAPIFmt     = "🔗 Current API: %s"
	msgChangedFmt = "🔄 API has been changed.\n🔗 Current API: %s"
	msgResetDone  = "🔄 All users have been reset. They will need to verify their access again."

	msgDenyStats     = "🚫 You don't have permission to view the stats."
	msgDenyBroadcast = "🚫 You don't have permission to broadcast messages."
	msgDenyAPI       = "🚫 You don't have permission to view the current API."
	msgDenyChange    = "🚫 You don't have permission to change the API."
	msgDenyReset     = "🚫 You don't have permission to reset users."

	btnSubscribe = "📢 Subscribe to channel"
	btnVerify    = "🔑 Click here to verify"
	btnTutorial  = "📖 How to verify"
)

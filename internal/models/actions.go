// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package models

// actionNames maps game event codes to the labels shown on the dashboard.
var actionNames = map[string]string{
	// Sessions
	"sessionStart": "🚀 Game Start",
	"sessionEnd":   "🔚 Game End",
	"appStart":     "📱 App Launch",
	"appQuit":      "📴 App Close",

	// Mini-games
	"playedMiniGameStatus": "🎮 Mini-game Played",
	"miniGameStarted":      "▶️ Mini-game Started",
	"miniGameCompleted":    "✅ Mini-game Completed",
	"miniGameFailed":       "❌ Mini-game Failed",

	// Lobby and navigation
	"lobbyActionInExit": "🏠 Lobby Action",
	"lobbyEnter":        "🚪 Lobby Enter",
	"lobbyExit":         "🚶 Lobby Exit",
	"sceneLoaded":       "🎬 Scene Loaded",

	// Progress
	"levelUp":             "⬆️ Level Up",
	"achievementUnlocked": "🏆 Achievement Unlocked",
	"rewardClaimed":       "🎁 Reward Claimed",
	"questCompleted":      "📋 Quest Completed",

	// Monetization
	"purchase":    "💰 Purchase",
	"iapPurchase": "💳 In-App Purchase",
	"adWatched":   "📺 Ad Watched",
	"adSkipped":   "⏭️ Ad Skipped",

	// Social
	"shareClicked": "📤 Share Clicked",
	"inviteSent":   "✉️ Invite Sent",

	// Settings
	"settingsChanged": "⚙️ Settings Changed",
	"languageChanged": "🌐 Language Changed",
	"soundToggled":    "🔊 Sound Toggled",

	// Tutorial
	"tutorialStarted":   "📖 Tutorial Started",
	"tutorialCompleted": "🎓 Tutorial Completed",
	"tutorialSkipped":   "⏩ Tutorial Skipped",
}

// FriendlyActionName returns the display label for an event code. Unknown
// codes are shown as-is behind a generic marker.
func FriendlyActionName(eventName string) string {
	if name, ok := actionNames[eventName]; ok {
		return name
	}
	return "🎯 " + eventName
}

// ActionReference describes the most common actions for the dashboard legend.
var ActionReference = []struct {
	Action      string
	Description string
}{
	{"🚀 Game Start", "Player started a new game session"},
	{"🎮 Mini-game Played", "Player played one of the mini-games"},
	{"🏠 Lobby Action", "Player interacted with main menu elements"},
	{"⬆️ Level Up", "Player reached a new level"},
	{"🏆 Achievement Unlocked", "Player unlocked an achievement"},
	{"💰 Purchase", "Player made a purchase"},
	{"📺 Ad Watched", "Player watched an ad"},
}

package menu

import "github.com/elwarren/meshtastic-menubar/internal/node"

// Icons used across the menu.
const (
	IconBlack        = "⚫"
	IconPolice       = "🚨"
	IconTicket       = "🎫"
	IconPager        = "📟"
	IconSatDish      = "📡"
	IconSatellite    = "🛰️"
	IconGlobeMesh    = "🌐"
	IconGlobeAmerica = "🌎"
	IconHash         = "#️⃣"
	IconStar         = "*️⃣"
	IconGear         = "⚙️"
	IconQuestion     = "❓"
	IconExclaim      = "❗"
	IconRefresh      = "🔄"
	IconWaffle       = "🧇"
	IconBooks        = "📚"
)

var statusIcons = map[node.Category]string{
	node.CategoryUnknown:  IconBlack,
	node.CategoryFresh:    "🟢",
	node.CategoryFewHours: "🟡",
	node.CategoryHalfDay:  "🟠",
	node.CategoryRecent:   "🔴",
	node.CategoryWeek:     "🟣",
	node.CategoryCold:     "🔵",
}

var hopIcons = [10]string{"0️⃣", "1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣"}

// StatusIcon is the coloured dot for a freshness category.
func StatusIcon(c node.Category) string {
	if icon, ok := statusIcons[c]; ok {
		return icon
	}
	return IconBlack
}

// HopIcon is the keycap digit for 0-9 hops, or *️⃣ otherwise.
func HopIcon(hops *int) string {
	if hops == nil || *hops < 0 || *hops > 9 {
		return IconStar
	}
	return hopIcons[*hops]
}

// Logo is the Meshtastic logo shown in the menu bar.
const Logo = "iVBORw0KGgoAAAANSUhEUgAAADIAAAAcCAYAAAAjmez3AAAACXBIWXMAAA7DAAAOwwHHb6hkAAAAGXRFWHRTb2Z0d2FyZQB3d3cuaW5rc2NhcGUub3Jnm+48GgAAApZJREFUWIXtmE2ITWEYx38zjvFthiFfC5OFaCZFJE2RRCIlysJuFGUxiVkYiylFmWxYTBGbWY2PUhJlwyyFSPmIhOQrYyjEmOHeY3Hcuce5/zPnOfe8d6H86yzuvc/vef7nve857/O+8F8AjAJ2AzUZctQB1W7slK92wAfuA4tTsjXAOSAP9AEr3Vqzqwn4QXAjPjAIHACqjHxniPWBD8BM9zZHlgfcjhjxgTNGfgXwS/CXnDtN0CFh4i1Qb2DHA08EX7haKuBXagkwJAxsNPJdgg1fn4G5bi2XagzwQBQ/beTXEDzcYTb62QeuU+E32TFR9AUw2cDWAi8Fv4PgrRf9fo9j78NqBnKRYjlgtZHvptTsxT+/qek6ADS6sV7UBOCpMHLcyG8SbB8wIxRzUMTcAUZndh/SKVHkMTDOwE4D3gl+ayTOA26JuI7s9gOtpfSB/AksN/LnhbnumNiFwHdRa1l51ouqA14JI4eN/HbBvgamjMC0CeYRMDa9/aJ6RNJ72JrE2cDHCJsH1idw1UCvqHs0vf1Am0WyQWCRkb8i+C4j2wB8ibA5YJWRH9Z04L0w0m7kdwn2GTAxhYedIsdzYFKKHFwQSW4Q7D+S1IAezXLa9MvCx0kr3CLgb8B8Axs3vzvt3v/SLKA/kisPbEgC5wCfhJFWY+F9gn1ItjfOFpHzDTA1DqgCrgroGrbN0gL0GrC03DsI6azw1RMX3CqCrS21B9wUvKtVOW492xYNnAd8FYHWTU6HYF33Seso7TD6iWyPTwgj1m1nPaWDMEDQbriW6vmOhAM8YD/Fw4S0BwGNBP9AIfnezJa1wl34EEHHLJeEJuAuYu4ZVBiM3rjkjtRM0CYlHj95GQtV8iYKsh45/Xv6DTfbUnnkjAuSAAAAAElFTkSuQmCC"

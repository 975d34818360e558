package playerbar

import "fmt"

// RenderVolume renders the volume indicator, e.g. "vol  80%".
func RenderVolume(volume int) string {
	icon := "vol"
	if volume == 0 {
		icon = "mute"
	}
	return progressTimeStyle().Render(fmt.Sprintf("%s %3d%%", icon, volume))
}

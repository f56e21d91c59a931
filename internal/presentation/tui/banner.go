package tui

var bannerLines = []string{
	`                _ _       _     _                         _ `,
	`  _____      __(_) |_ ___| |__ | |__   ___   __ _ _ __ __| |`,
	` / __\ \ /\ / /| | __/ __| '_ \| '_ \ / _ \ / _' | '__/ _' |`,
	` \__ \\ V  V / | | || (__| | | | |_) | (_) | (_| | | | (_| |`,
	` |___/ \_/\_/  |_|\__\___|_| |_|_.__/ \___/ \__,_|_|  \__,_|`,
}

// Indigo to rose, one shade per line.
var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

// Banner prints the switchboard logo with a gradient.
func (p *Printer) Banner() {
	p.println("")
	for i, line := range bannerLines {
		p.println(p.profile.String(line).Foreground(p.profile.Color(bannerColors[i])).String())
	}
	p.println("")
}

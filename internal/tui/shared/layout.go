package shared

import "github.com/charmbracelet/lipgloss"

// RenderTwoColumnLayout renders content in two columns with a 60-40 width split.
func RenderTwoColumnLayout(leftContent, rightContent string, width, height int) string {
	leftWidth := int(float64(width) * 0.6)
	rightWidth := width - leftWidth

	leftStyle := lipgloss.NewStyle().Width(leftWidth).Height(height)
	rightStyle := lipgloss.NewStyle().Width(rightWidth).Height(height)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Render(leftContent),
		rightStyle.Render(rightContent),
	)
}

// RenderWidgetBox renders content in a bordered box under a bold title.
func RenderWidgetBox(title, content string, width int) string {
	const widthOverhead = 4 // borders and padding

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor())
	boxStyle := BoxStyle().Width(max(width-widthOverhead, 1))

	return boxStyle.Render(titleStyle.Render(title) + "\n" + content)
}

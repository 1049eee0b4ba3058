package ui

import (
	"fmt"
	"strings"
)

func (c *Component) View() string {
	var b strings.Builder

	b.WriteString(c.styles.Title.Render("Todo List"))
	b.WriteString("\n\n")
	b.WriteString(c.input.View())
	b.WriteString("\n\n")

	if c.err != "" {
		b.WriteString(c.styles.Error.Render(c.err))
		b.WriteString("\n\n")
	}

	switch {
	case c.loading:
		b.WriteString(c.spinner.View() + " Loading todos...")
	case len(c.todos) == 0:
		b.WriteString(c.styles.Muted.Render("No todos yet. Add one above!"))
	default:
		for i, t := range c.todos {
			b.WriteString(c.renderRow(i, t.Title, t.IsCompleted, t.CreatedAt.Local().Format("Jan 2 15:04")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(c.styles.Muted.Render(summary(c.completedCount(), len(c.todos))))
	}

	b.WriteString("\n\n")
	b.WriteString(c.help.View(c.keys))
	return c.styles.Frame.Render(b.String())
}

func (c *Component) renderRow(i int, title string, done bool, created string) string {
	pointer := "  "
	if i == c.cursor {
		pointer = c.styles.Cursor.Render("> ")
	}
	box, style := "[ ]", c.styles.Pending
	if done {
		box, style = "[x]", c.styles.Done
	}
	return fmt.Sprintf("%s%s %s %s", pointer, box, style.Render(title), c.styles.Muted.Render(created))
}

func (c *Component) completedCount() int {
	n := 0
	for _, t := range c.todos {
		if t.IsCompleted {
			n++
		}
	}
	return n
}

func summary(done, total int) string {
	return fmt.Sprintf("%d of %d completed", done, total)
}

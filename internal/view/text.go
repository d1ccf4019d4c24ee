package view

import (
	"fmt"
	"io"
	"strings"
)

// TextRenderer is the terminal skin.
type TextRenderer struct{}

func (TextRenderer) Render(w io.Writer, v View) error {
	var b strings.Builder

	switch {
	case v.Loading:
		b.WriteString(v.ButtonLabel + "\n")
	case v.Error != "":
		b.WriteString(v.Error + "\n")
	case v.Result != nil:
		r := v.Result
		fmt.Fprintf(&b, "%s\n", r.Location)
		fmt.Fprintf(&b, "%s\n", r.Description)
		if r.IconURL != "" {
			fmt.Fprintf(&b, "Icon: %s\n", r.IconURL)
		}
		fmt.Fprintf(&b, "Temperature: %s\n", r.Temperature)
		fmt.Fprintf(&b, "Humidity: %s\n", r.Humidity)
		fmt.Fprintf(&b, "Wind Speed: %s\n", r.WindSpeed)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

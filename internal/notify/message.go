package notify

import (
	"fmt"
	"html"
	"strings"
)

// message is a notification body rendered once and sent as both plain text
// and HTML alternatives.
type message struct {
	subject  string
	heading  string
	sections []section
}

type section struct {
	label string
	body  string
}

func (m message) plainText() string {
	var b strings.Builder
	b.WriteString(m.heading)
	b.WriteString("\n")
	for _, s := range m.sections {
		b.WriteString("\n")
		if s.label != "" {
			b.WriteString(s.label)
			b.WriteString("\n")
			b.WriteString(strings.Repeat("-", len(s.label)))
			b.WriteString("\n")
		}
		b.WriteString(s.body)
		b.WriteString("\n")
	}
	return b.String()
}

func (m message) htmlBody() string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<h2>")
	b.WriteString(html.EscapeString(m.heading))
	b.WriteString("</h2>")
	for _, s := range m.sections {
		if s.label != "" {
			b.WriteString("<h3>")
			b.WriteString(html.EscapeString(s.label))
			b.WriteString("</h3>")
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(s.body), "\n", "<br/>"))
		b.WriteString("</p>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func resultMessage(videoTitle, shortSummary, comprehensiveSummary string) message {
	return message{
		subject: fmt.Sprintf("Video summary: %s", videoTitle),
		heading: fmt.Sprintf("Summary for %q", videoTitle),
		sections: []section{
			{label: "Short summary", body: shortSummary},
			{label: "Comprehensive summary", body: comprehensiveSummary},
		},
	}
}

func errorMessage(videoTitle, reason string) message {
	return message{
		subject: fmt.Sprintf("Error generating video summary: %s", videoTitle),
		heading: fmt.Sprintf("Could not summarize %q", videoTitle),
		sections: []section{
			{label: "Reason", body: reason},
		},
	}
}

func noNewVideoMessage(lastTitle string) message {
	body := "No new videos were found on the channel."
	if lastTitle != "" {
		body = fmt.Sprintf("No new videos since %q.", lastTitle)
	}
	return message{
		subject:  "No new videos",
		heading:  "No new videos",
		sections: []section{{body: body}},
	}
}

package parse

import "regexp"

// linePattern is one entry of the ordered grammar table. Capture groups are
// date, time[, meridiem], then sender and content for message lines.
type linePattern struct {
	re          *regexp.Regexp
	hasMeridiem bool
}

// messagePatterns is the priority-ordered grammar table for sender lines.
// First match wins. Entry 3 also covers the US MM/DD variant: the two
// grammars are the same regex and only the date-order setting tells them
// apart (see DateOrder).
var messagePatterns = []linePattern{
	// [DD/MM/YYYY, HH:MM:SS] Sender: Content
	{re: regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{4}),\s(\d{1,2}:\d{2}:\d{2})\]\s(.+?):\s(.+)$`)},
	// [DD/MM/YYYY, HH:MM:SS AM] Sender: Content
	{re: regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{4}),\s(\d{1,2}:\d{2}:\d{2})\s(AM|PM)\]\s(.+?):\s(.+)$`), hasMeridiem: true},
	// DD/MM/YYYY, HH:MM - Sender: Content (also MM/DD/YYYY US exports)
	{re: regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4}),\s(\d{1,2}:\d{2})\s-\s(.+?):\s(.+)$`)},
	// DD/MM/YYYY, HH:MM:SS - Sender: Content
	{re: regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4}),\s(\d{1,2}:\d{2}:\d{2})\s-\s(.+?):\s(.+)$`)},
	// DD/MM/YY, HH:MM am - Sender: Content
	{re: regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2}),\s(\d{1,2}:\d{2})\s(am|pm|AM|PM)\s-\s(.+?):\s(.+)$`), hasMeridiem: true},
	// DD/MM/YY, HH:MM - Sender: Content
	{re: regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2}),\s(\d{1,2}:\d{2})\s-\s(.+?):\s(.+)$`)},
	// DD.MM.YYYY, HH:MM - Sender: Content
	{re: regexp.MustCompile(`^(\d{1,2}\.\d{1,2}\.\d{4}),\s(\d{1,2}:\d{2})\s-\s(.+?):\s(.+)$`)},
}

// systemPatterns mirrors messagePatterns without a sender group; the
// remainder of the line is the notice content.
var systemPatterns = []linePattern{
	{re: regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{4}),\s(\d{1,2}:\d{2}:\d{2})\]\s(.+)$`)},
	{re: regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4}),\s(\d{1,2}:\d{2})\s-\s(.+)$`)},
	{re: regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2}),\s(\d{1,2}:\d{2})\s(am|pm|AM|PM)\s-\s(.+)$`), hasMeridiem: true},
	{re: regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2}),\s(\d{1,2}:\d{2})\s-\s(.+)$`)},
}

// lineMatch is the normalized capture of one matched line.
type lineMatch struct {
	date     string
	clock    string
	meridiem string
	sender   string
	content  string
}

// match applies the pattern and normalizes its capture groups.
// withSender selects the message-line group layout over the system one.
func (p linePattern) match(line string, withSender bool) (lineMatch, bool) {
	groups := p.re.FindStringSubmatch(line)
	if groups == nil {
		return lineMatch{}, false
	}
	m := lineMatch{date: groups[1], clock: groups[2]}
	i := 3
	if p.hasMeridiem {
		m.meridiem = groups[i]
		i++
	}
	if withSender {
		m.sender = groups[i]
		i++
	}
	m.content = groups[i]
	return m, true
}

package swarmkit

import "strings"

// parseDoc splits a tool description into the overall description and per-parameter
// descriptions taken from an "Args:" section:
//
//	Greets a user.
//
//	Args:
//	    name (str): who to greet
//	    times: how many times
//	Returns:
//	    the greeting
//
// Lines before "Args:" form the description. Inside the section each "name: text" line
// documents one parameter; an inline "(type)" after the name is dropped and lines without
// a colon are ignored. A blank line leaves the section; "Returns:" or "Raises:" stops the scan
// only inside it, so a Returns block after a blank line is appended to the description.
func parseDoc(doc string) (string, map[string]string) {
	params := make(map[string]string)
	var desc strings.Builder
	inArgs := false
	for line := range strings.Lines(doc) {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToLower(line), "args:") {
			inArgs = true
			continue
		}
		if !inArgs {
			desc.WriteString(line)
			desc.WriteByte(' ')
			continue
		}
		if line == "" {
			inArgs = false
			continue
		}
		if strings.HasPrefix(line, "Returns:") || strings.HasPrefix(line, "Raises:") {
			break
		}
		name, text, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if i := strings.IndexByte(name, '('); i >= 0 {
			name = name[:i]
		}
		params[strings.TrimSpace(name)] = strings.TrimSpace(text)
	}
	return strings.TrimSpace(desc.String()), params
}

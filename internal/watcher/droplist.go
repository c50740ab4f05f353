package watcher

import (
	"bufio"
	"os"
	"strings"
)

// ReadURLList reads article URLs out of a drop file, one per line. Blank
// lines and '#' comments are skipped. Windows internet-shortcut files are
// supported: a "URL=..." line yields its value, the other INI lines are
// ignored.
func ReadURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			continue
		case strings.HasPrefix(strings.ToUpper(line), "URL="):
			urls = append(urls, strings.TrimSpace(line[len("URL="):]))
		case strings.Contains(line, "="):
			continue
		default:
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

package core

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"
	"text/template"
)

// expand resolves {{env "VAR"}} and {{exec "cmd"}} templates in connection
// parameter fields, so secrets don't have to live in config files.
func expand(value string) (string, error) {
	tmpl, err := template.New("expand_variables").
		Funcs(template.FuncMap{
			"env": os.Getenv,
			"exec": func(line string) (string, error) {
				fields := strings.Fields(line)
				if len(fields) < 1 {
					return "", errors.New("no command provided")
				}

				// anything with a pipe goes through the shell
				if strings.Contains(line, " | ") {
					fields = []string{"sh", "-c", line}
				}

				out, err := exec.Command(fields[0], fields[1:]...).Output()
				return strings.TrimSpace(string(out)), err
			},
		}).
		Parse(value)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, nil); err != nil {
		return "", err
	}

	return out.String(), nil
}

// expandOrDefault silently suppresses errors.
func expandOrDefault(value string) string {
	ex, err := expand(value)
	if err != nil {
		return value
	}
	return ex
}

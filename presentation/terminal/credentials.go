package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"totvs_automation/infrastructure/config"
)

// askCredentials fills the empty connection settings from the terminal.
// It reports whether anything was typed in.
func askCredentials(in *bufio.Reader, out io.Writer, cfg *config.Config) (bool, error) {
	fields := []struct {
		label string
		dst   *string
	}{
		{"URL do ERP", &cfg.URL},
		{"Usuário", &cfg.User},
		{"Senha", &cfg.Password},
	}

	asked := false
	for _, f := range fields {
		if *f.dst != "" {
			continue
		}
		v, err := readLine(in, out, f.label+": ")
		if err != nil {
			return asked, err
		}
		if v == "" {
			return asked, fmt.Errorf("%s is required", strings.ToLower(f.label))
		}
		*f.dst = v
		asked = true
	}
	return asked, nil
}

// confirm asks a yes/no question; anything but s/sim/y/yes is no
func confirm(in *bufio.Reader, out io.Writer, question string) bool {
	v, err := readLine(in, out, question+" [s/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(v) {
	case "s", "sim", "y", "yes":
		return true
	default:
		return false
	}
}

func readLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/lipgloss"

	"unihub/internal/logtail"
)

var levelStyles = map[string]lipgloss.Style{
	"debug": lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	"info":  lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	"warn":  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	"error": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

func main() {
	addr := flag.String("addr", "127.0.0.1:9091", "log tail TCP address")
	raw := flag.Bool("raw", false, "print raw JSON lines")
	module := flag.String("module", "", "only show entries from this module")
	flag.Parse()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 30 * time.Second

	for {
		connected, err := run(*addr, os.Stdout, *raw, *module)
		if err != nil {
			log.Printf("[log-tail] disconnected: %v", err)
		}
		if connected {
			b.Reset()
		}
		time.Sleep(b.NextBackOff()) // auto reconnect
	}
}

// run streams one connection to w. connected reports whether the dial
// succeeded, so the caller can reset its reconnect delay.
func run(addr string, w io.Writer, raw bool, module string) (connected bool, err error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[log-tail] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if raw {
			fmt.Fprintln(w, string(line))
			continue
		}
		if out, ok := render(line, module); ok {
			fmt.Fprintln(w, out)
		}
	}
	if err := sc.Err(); err != nil {
		return true, err
	}
	return true, io.EOF
}

// render formats one hub message. Lines that are not JSON are passed
// through; entries from other modules are skipped.
func render(line []byte, module string) (string, bool) {
	var msg logtail.Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return string(line), true
	}

	switch msg.Type {
	case "welcome":
		return fmt.Sprintf("-- subscribed via %s (%d clients) --", msg.Transport, msg.Clients), true
	case "log":
		if msg.Entry == nil {
			return "", false
		}
		e := msg.Entry
		if module != "" && e.Module != module {
			return "", false
		}
		level := string(e.Level)
		style, ok := levelStyles[level]
		if !ok {
			style = lipgloss.NewStyle()
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s %s [%s] %s",
			e.Timestamp.Format("15:04:05.000"),
			style.Render(fmt.Sprintf("%-5s", strings.ToUpper(level))),
			e.Module,
			e.Message,
		)
		if len(e.Data) > 0 {
			data, _ := json.Marshal(e.Data)
			sb.WriteString(" ")
			sb.Write(data)
		}
		if e.Error != "" {
			sb.WriteString(" error=")
			sb.WriteString(e.Error)
		}
		return sb.String(), true
	default:
		return string(line), true
	}
}

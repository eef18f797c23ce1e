// Command vlistdemo browses a synthetic mailbox through the vlist engine
// and its terminal widget. It fakes a paginated server source and a stream
// of create/update/delete notifications so windowing, selection and
// reconciliation can be exercised interactively.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ayn2op/vlist"
	"github.com/ayn2op/vlist/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		rows     int
		pageSize int
		mobile   bool
		logFile  string
	)
	cmd := &cobra.Command{
		Use:   "vlistdemo",
		Short: "Browse a synthetic mailbox through the vlist windowing engine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closer, err := newLogger(logFile)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}
			return run(rows, pageSize, mobile, log)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 5000, "number of messages in the fake mailbox")
	cmd.Flags().IntVar(&pageSize, "page-size", 100, "page fetch size")
	cmd.Flags().BoolVar(&mobile, "mobile", false, "use the mobile scroll profile (deferred repositioning)")
	cmd.Flags().StringVar(&logFile, "log", "", "write debug logs to this file")
	return cmd
}

func newLogger(path string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return zerolog.Nop(), nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}
	w := zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true}
	return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger(), f, nil
}

func run(rows, pageSize int, mobile bool, log zerolog.Logger) error {
	src := newMailSource(rows)

	profile := vlist.ProfileDesktop
	if mobile {
		profile = vlist.ProfileMobile
	}

	updates := make(chan func(), 64)
	post := func(fn func()) { updates <- fn }

	widget, err := tui.NewWidget(vlist.Options{
		ListID:                src.listID,
		RowHeight:             1,
		PageSize:              pageSize,
		Fetch:                 src.Fetch,
		LoadSingle:            src.LoadSingle,
		Compare:               compareDesc,
		EmptyMessage:          "no messages",
		MultiSelectionAllowed: true,
		Profile:               profile,
		Post:                  post,
		Swipe: &vlist.SwipeConfig{
			SwipeLeft:  func(e vlist.Entity) error { return src.Delete(e.EntityID()) },
			SwipeRight: func(e vlist.Entity) error { return src.Delete(e.EntityID()) },
		},
	}, renderMessage)
	if err != nil {
		return err
	}
	widget.SetTitle("inbox")
	list := widget.List().SetLogger(log)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	width, height := screen.Size()
	widget.SetRect(0, 0, width, height)

	quit := make(chan struct{})
	events := make(chan tcell.Event, 16)
	go screen.ChannelEvents(events, quit)

	// Deliver fake notifications through the engine's only inbound channel.
	src.notify = func(ev vlist.EntityEvent) {
		post(func() { list.EntityEventReceived(ev) })
	}
	go src.churn(quit)

	go func() {
		if err := list.LoadInitial(context.Background(), ""); err != nil {
			log.Error().Err(err).Msg("initial load failed")
		}
		post(func() {})
	}()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				width, height = screen.Size()
				widget.SetRect(0, 0, width, height)
				screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					close(quit)
					return nil
				}
				widget.HandleKey(ev)
			case *tcell.EventMouse:
				widget.HandleMouse(ev)
			}
		case fn := <-updates:
			fn()
			// Drain whatever else is queued before repainting.
		drain:
			for {
				select {
				case fn := <-updates:
					fn()
				default:
					break drain
				}
			}
		}
		widget.Draw(screen)
		screen.Show()
	}
}

func compareDesc(a, b vlist.Entity) int {
	return strings.Compare(b.EntityID(), a.EntityID())
}

func renderMessage(e vlist.Entity, width int) string {
	m := e.(*message)
	return fmt.Sprintf(" %s  %-20s %s", m.received.Format("Jan 02 15:04"), m.from, m.subject)
}

var (
	senders  = []string{"ada@example.com", "linus@example.com", "grace@example.com", "ken@example.com"}
	subjects = []string{"weekly report", "build broken", "lunch?", "release notes", "ticket update"}
)

func randomFrom() string    { return senders[rand.Intn(len(senders))] }
func randomSubject() string { return subjects[rand.Intn(len(subjects))] }

package commands

import (
	"fmt"

	"git.home.luguber.info/inful/catalogmirror/internal/daemon"
	"git.home.luguber.info/inful/catalogmirror/internal/news"
)

// NewsCmd groups the news subcommands.
type NewsCmd struct {
	List NewsListCmd `cmd:"" default:"1" help:"List news items"`
	Read NewsReadCmd `cmd:"" help:"Mark news items as read"`
}

// NewsListCmd implements 'news list'.
type NewsListCmd struct {
	Unread bool `help:"Only show unread items"`
}

func (n *NewsListCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, daemon.RuntimeOptions{DisableEventStore: true})
	if err != nil {
		return err
	}
	defer s.Close(g.out())

	if err := s.rt.Feed.Reload(); err != nil {
		return err
	}
	for i, it := range s.rt.Feed.Items() {
		if n.Unread && it.Read {
			continue
		}
		_, _ = fmt.Fprintf(g.out(), "%3d %s %s %s\n", i, readMark(it), it.DateText, it.Subject)
		if it.Summary != "" {
			_, _ = fmt.Fprintf(g.out(), "      %s\n", it.Summary)
		}
	}
	_, _ = fmt.Fprintf(g.out(), "%d unread of %d\n", s.rt.Feed.Unread(), s.rt.Feed.Len())
	return nil
}

func readMark(it news.Item) string {
	if it.Read {
		return " "
	}
	return "*"
}

// NewsReadCmd implements 'news read'.
type NewsReadCmd struct {
	Index []int `arg:"" optional:"" help:"Item indexes as shown by 'news list'"`
	All   bool  `help:"Mark every item as read"`
}

func (n *NewsReadCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, daemon.RuntimeOptions{DisableEventStore: true})
	if err != nil {
		return err
	}
	defer s.Close(g.out())

	feed := s.rt.Feed
	if err := feed.Reload(); err != nil {
		return err
	}
	if n.All {
		if err := feed.MarkAllAsRead(); err != nil {
			return err
		}
	}
	for _, i := range n.Index {
		if err := feed.MarkAsRead(i); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintf(g.out(), "%d unread of %d\n", feed.Unread(), feed.Len())
	return nil
}

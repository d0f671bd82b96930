// Package tui is the terminal swipe surface. The root App owns the deck
// engine and the live feed; sub-models render one view each.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"name-swiper/internal/client"
	"name-swiper/internal/deck"
	"name-swiper/internal/models"
	"name-swiper/internal/services"
)

type view int

const (
	viewLogin view = iota
	viewSwipe
	viewLists
	viewAdd
	viewStats
)

// DefaultUndoWindow bounds how long a vote stays reversible when the
// server does not announce a window of its own. It mirrors the server's
// deck configuration default.
const DefaultUndoWindow = 15 * time.Second

// undoWindowFor picks the engine's undo window from the session response.
func undoWindowFor(res *client.LoginResult) time.Duration {
	if res.UndoWindowSeconds > 0 {
		return time.Duration(res.UndoWindowSeconds) * time.Second
	}
	return DefaultUndoWindow
}

// catalogLoadedMsg carries the initial catalog and ledger fetch.
type catalogLoadedMsg struct {
	names []models.NameRecord
	votes map[string]models.Vote
	err   error
}

// snapshotMsg delivers a fresh deck state from the engine.
type snapshotMsg deck.Snapshot

// matchMsg delivers a locally caused match from the engine.
type matchMsg deck.MatchEvent

// feedMsg delivers one live-feed message from the server.
type feedMsg services.WSMessage

// feedClosedMsg signals that the live feed dropped.
type feedClosedMsg struct {
	err error
}

// App is the root Bubbletea model.
type App struct {
	client  *client.Client
	session *client.SessionFile
	server  string

	engine  *deck.Engine
	user    string
	partner string

	view  view
	login loginModel
	swipe swipeModel
	lists listsModel
	add   addModel
	stats statsModel

	partnerOnline bool
	feed          chan services.WSMessage
	feedCancel    context.CancelFunc

	width  int
	height int
}

// NewApp creates the root model. serverURL is the API base URL.
func NewApp(c *client.Client, s *client.SessionFile, serverURL string) App {
	return App{
		client:  c,
		session: s,
		server:  serverURL,
		login:   newLoginModel(c, s.User()),
		lists:   newListsModel(c),
		add:     newAddModel(c, s),
		stats:   newStatsModel(c),
	}
}

func (a App) Init() tea.Cmd {
	return a.login.Init()
}

func (a App) bootstrap() tea.Cmd {
	c := a.client
	return func() tea.Msg {
		names, err := c.ListNames(context.Background())
		if err != nil {
			return catalogLoadedMsg{err: err}
		}
		profile, err := c.Profile(context.Background())
		if err != nil {
			return catalogLoadedMsg{err: err}
		}
		return catalogLoadedMsg{names: names, votes: profile.Votes}
	}
}

// openFeed starts the websocket reader, pumping messages into a.feed.
func (a *App) openFeed() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	a.feedCancel = cancel
	a.feed = make(chan services.WSMessage, 16)

	c := a.client
	ch := a.feed
	go func() {
		defer close(ch)
		_ = c.Listen(ctx, func(msg services.WSMessage) {
			ch <- msg
		})
	}()
	return waitFeed(ch)
}

func waitFeed(ch chan services.WSMessage) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return feedMsg(msg)
	}
}

func waitSnapshot(ch <-chan deck.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-ch)
	}
}

func waitMatch(ch <-chan deck.MatchEvent) tea.Cmd {
	return func() tea.Msg {
		return matchMsg(<-ch)
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 3}
		a.swipe, _ = a.swipe.Update(bodyMsg)
		a.lists, _ = a.lists.Update(bodyMsg)
		return a, nil

	case loggedInMsg:
		if msg.err != nil {
			a.login, _ = a.login.Update(msg)
			return a, nil
		}
		a.user = msg.res.User
		a.partner = partnerOf(msg.res.Users, a.user)
		_ = a.session.SetIdentity(a.server, a.user, msg.res.Token)
		a.engine = deck.New(a.user, a.partner, client.VoteStore{Client: a.client}, a.session, undoWindowFor(msg.res))
		a.swipe = newSwipeModel(a.engine)
		a.lists.user = a.user
		return a, a.bootstrap()

	case catalogLoadedMsg:
		if msg.err != nil {
			a.login, _ = a.login.Update(loggedInMsg{err: msg.err})
			return a, nil
		}
		a.engine.Load(msg.names, msg.votes)
		a.view = viewSwipe
		a.swipe = a.swipe.setSnapshot(a.engine.Current())
		return a, tea.Batch(
			waitSnapshot(a.engine.Snapshots()),
			waitMatch(a.engine.Matches()),
			a.openFeed(),
		)

	case snapshotMsg:
		a.swipe = a.swipe.setSnapshot(deck.Snapshot(msg))
		return a, waitSnapshot(a.engine.Snapshots())

	case matchMsg:
		var cmd tea.Cmd
		a.swipe, cmd = a.swipe.showMatch(msg.Name)
		return a, tea.Batch(cmd, waitMatch(a.engine.Matches()))

	case feedMsg:
		return a.applyFeed(services.WSMessage(msg))

	case feedClosedMsg:
		// The feed dropped; votes still persist over HTTP, so reconnect
		// quietly in the background.
		if a.engine != nil {
			return a, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
				return retryFeedMsg{}
			})
		}
		return a, nil

	case retryFeedMsg:
		return a, a.openFeed()

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	return a.route(msg)
}

type retryFeedMsg struct{}

func (a App) applyFeed(msg services.WSMessage) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitFeed(a.feed)}

	switch msg.Type {
	case services.MsgNameAdded, services.MsgVoteCast:
		if msg.Name != nil {
			a.engine.ApplyRemote(*msg.Name)
		}
	case services.MsgMatch:
		// A match caused by the partner's vote; local ones come from the
		// engine and would double-toast.
		if msg.Voter != a.user && msg.Name != nil {
			var cmd tea.Cmd
			a.swipe, cmd = a.swipe.showMatch(msg.Name.Name)
			cmds = append(cmds, cmd)
		}
	case services.MsgPartnerStatus:
		if msg.Online != nil {
			a.partnerOnline = *msg.Online
		}
	}
	return a, tea.Batch(cmds...)
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if a.feedCancel != nil {
			a.feedCancel()
		}
		return a, tea.Quit
	}

	if a.view == viewLogin {
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd
	}

	if !a.isEditing() {
		switch msg.String() {
		case "q":
			if a.feedCancel != nil {
				a.feedCancel()
			}
			return a, tea.Quit
		case "1":
			a.view = viewSwipe
			return a, nil
		case "2":
			a.view = viewLists
			return a, a.lists.Init()
		case "3":
			a.view = viewAdd
			return a, nil
		case "4":
			a.view = viewStats
			return a, a.stats.Init()
		case "esc":
			if a.view != viewSwipe {
				a.view = viewSwipe
				return a, nil
			}
		}
	} else if msg.String() == "esc" {
		a.view = viewSwipe
		return a, nil
	}

	return a.route(msg)
}

func (a App) isEditing() bool {
	return a.view == viewAdd
}

// route forwards a message to the active sub-model.
func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewSwipe:
		a.swipe, cmd = a.swipe.Update(msg)
	case viewLists:
		a.lists, cmd = a.lists.Update(msg)
	case viewAdd:
		a.add, cmd = a.add.Update(msg)
	case viewStats:
		a.stats, cmd = a.stats.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.view == viewLogin {
		return a.login.View()
	}

	header := "  " + titleStyle.Render("name swiper") + "  " + metaStyle.Render(a.user)
	if a.partner != "" {
		dot := metaStyle.Render("○")
		if a.partnerOnline {
			dot = onlineStyle.Render("●")
		}
		header += metaStyle.Render(" + ") + dot + " " + metaStyle.Render(a.partner)
	}

	tabs := []struct {
		key  string
		name string
		v    view
	}{
		{"1", "swipe", viewSwipe},
		{"2", "lists", viewLists},
		{"3", "add", viewAdd},
		{"4", "stats", viewStats},
	}
	var tabBar strings.Builder
	tabBar.WriteString("  ")
	for i, t := range tabs {
		if i > 0 {
			tabBar.WriteString("   ")
		}
		if t.v == a.view {
			tabBar.WriteString(accentStyle.Render(t.key) + " " + selectedStyle.Render(t.name))
		} else {
			tabBar.WriteString(metaStyle.Render(t.key) + " " + dimStyle.Render(t.name))
		}
	}

	var body, help string
	switch a.view {
	case viewSwipe:
		body = a.swipe.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + a.swipe.helpKeys() + "  " + helpEntry("q", "quit")
	case viewLists:
		body = a.lists.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("tab", "filter") + "  " + helpEntry("g", "gender") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("c", "copy") + "  " + helpEntry("q", "quit")
	case viewAdd:
		body = a.add.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("enter", "add") + "  " + helpEntry("esc", "back")
	case viewStats:
		body = a.stats.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("q", "quit")
	}

	if a.height > 0 {
		body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")
	}
	return header + "\n" + tabBar.String() + "\n" + body + "\n" + help
}

// partnerOf picks the other name out of the configured pair.
func partnerOf(users [2]string, user string) string {
	if users[0] == user {
		return users[1]
	}
	return users[0]
}

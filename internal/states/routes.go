package states

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/text/language"

	"github.com/ezlaw/ezlaw/internal/autocomplete"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes mounts the state lookup endpoints on r.
func RegisterRoutes(r chi.Router) {
	r.Get("/api/states", handleSearch)
	r.Get("/ws/states", handleWebSocket)
}

// searchResponse is the JSON body of GET /api/states.
type searchResponse struct {
	Query   string               `json:"query"`
	Matches []autocomplete.Match `json:"matches"`
}

func handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	ranker := autocomplete.NewRanker(language.English)

	var matches []autocomplete.Match
	if ranker.Normalize(q) == "" {
		for _, e := range ranker.Alphabetical(All) {
			matches = append(matches, autocomplete.Match{Entry: e})
		}
	} else {
		matches = ranker.Rank(All, q)
	}
	if matches == nil {
		matches = []autocomplete.Match{}
	}

	writeJSON(w, http.StatusOK, searchResponse{Query: q, Matches: matches})
}

// clientEvent is one message from the browser.
type clientEvent struct {
	Type string `json:"type"` // query, key, select, clear, open, close
	Text string `json:"text,omitempty"`
	Key  string `json:"key,omitempty"`
	Code string `json:"code,omitempty"`
}

// Snapshot is the dropdown state sent after every event.
type Snapshot struct {
	Type      string               `json:"type"`
	State     string               `json:"state"`
	Query     string               `json:"query"`
	Visible   []autocomplete.Entry `json:"visible"`
	Highlight int                  `json:"highlight"`
	Selected  *autocomplete.Entry  `json:"selected"`
	Error     string               `json:"error,omitempty"`
}

// TakeSnapshot captures d for the wire.
func TakeSnapshot(d *autocomplete.Dropdown) Snapshot {
	s := Snapshot{
		Type:      "state",
		State:     d.State().String(),
		Query:     d.Query(),
		Visible:   d.Visible(),
		Highlight: d.Highlight(),
	}
	if d.State() == autocomplete.Closed {
		s.Visible = []autocomplete.Entry{}
	}
	if sel, ok := d.Selected(); ok {
		s.Selected = &sel
	}
	return s
}

// apply feeds one client event into d.
func apply(d *autocomplete.Dropdown, ev clientEvent) error {
	switch ev.Type {
	case "query":
		d.SetQuery(ev.Text)
	case "key":
		if !d.HandleKey(autocomplete.Key(ev.Key)) {
			return errUnknownKey(ev.Key)
		}
	case "select":
		if !d.Select(autocomplete.Entry{Code: ev.Code}) {
			return errUnknownCode(ev.Code)
		}
	case "clear":
		d.ClearSelection()
	case "open":
		d.Open()
	case "close":
		d.Close()
	default:
		return errUnknownType(ev.Type)
	}
	return nil
}

type errUnknownKey string

func (e errUnknownKey) Error() string { return "unknown key: " + string(e) }

type errUnknownCode string

func (e errUnknownCode) Error() string { return "unknown state code: " + string(e) }

type errUnknownType string

func (e errUnknownType) Error() string { return "unknown event type: " + string(e) }

// handleWebSocket runs one dropdown per connection.
func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("states: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	d := NewDropdown()
	send(conn, TakeSnapshot(d))

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("states: websocket read: %v", err)
			}
			return
		}

		var ev clientEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			send(conn, Snapshot{Type: "error", Error: "invalid message format"})
			continue
		}

		err = apply(d, ev)
		snap := TakeSnapshot(d)
		if err != nil {
			snap.Type = "error"
			snap.Error = err.Error()
		}
		send(conn, snap)
	}
}

func send(conn *websocket.Conn, s Snapshot) {
	if err := conn.WriteJSON(s); err != nil {
		log.Printf("states: websocket write: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

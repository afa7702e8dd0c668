package state

// FSState holds one or more panes (single-pane is the default), the active
// pane index, a bounded recent-directories history, and the favorites set
// (spec.md section 3). Mutated only while the Coordinator's FS lock is held.
type FSState struct {
	Panes      []*Pane
	ActivePane int
	Recent     []string // bounded deque, most-recent first
	Favorites  map[string]struct{}
	ShowHidden bool
}

// MaxRecent bounds the recent-directories deque.
const MaxRecent = 50

// NewFSState creates FSState with a single pane rooted at path.
func NewFSState(path string, viewportHeight int) *FSState {
	return &FSState{
		Panes:      []*Pane{NewPane(path, viewportHeight)},
		ActivePane: 0,
		Favorites:  make(map[string]struct{}),
	}
}

// Active returns the currently active pane.
func (s *FSState) Active() *Pane {
	if s.ActivePane < 0 || s.ActivePane >= len(s.Panes) {
		return s.Panes[0]
	}
	return s.Panes[s.ActivePane]
}

// PushRecent records path at the front of the recent-directories deque,
// moving it there if already present, and trims to MaxRecent.
func (s *FSState) PushRecent(path string) {
	for i, p := range s.Recent {
		if p == path {
			s.Recent = append(s.Recent[:i], s.Recent[i+1:]...)
			break
		}
	}
	s.Recent = append([]string{path}, s.Recent...)
	if len(s.Recent) > MaxRecent {
		s.Recent = s.Recent[:MaxRecent]
	}
}

// ToggleFavorite adds or removes path from the favorites set, returning the
// resulting membership.
func (s *FSState) ToggleFavorite(path string) bool {
	if _, ok := s.Favorites[path]; ok {
		delete(s.Favorites, path)
		return false
	}
	s.Favorites[path] = struct{}{}
	return true
}

// IsFavorite reports whether path is favorited.
func (s *FSState) IsFavorite(path string) bool {
	_, ok := s.Favorites[path]
	return ok
}

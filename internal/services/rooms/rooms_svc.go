package rooms

import (
	"sync"
)

// Snapshot is the last-known editor state of a room. A nil field means the
// room has never seen that event, which is distinct from an empty value.
type Snapshot struct {
	Code     *string
	Language *string
	Theme    *string
}

type IRoomService interface {
	// Join records userName as a member of roomID (creating the room on first
	// use) and returns the member list in join order.
	Join(roomID, userName string) []string
	// Leave drops one connection's claim on userName in roomID. The returned
	// bool is false when the room never saw that user.
	Leave(roomID, userName string) ([]string, bool)
	// Members reports the ordered member list; ok is false until someone has
	// joined the room. Snapshot writes alone do not register a room.
	Members(roomID string) ([]string, bool)

	SetCode(roomID, code string)
	SetLanguage(roomID, language string)
	SetTheme(roomID, theme string)
	// Snapshot reports the room's recorded state; ok is false until the
	// first field is set.
	Snapshot(roomID string) (Snapshot, bool)

	// Reset clears all registry and snapshot state. Test harness support.
	Reset()
}

// memberState is one room's registry entry. Member names are
// reference-counted so that two connections sharing a name appear once in
// the broadcast list, yet one of them leaving does not evict the other.
type memberState struct {
	order []string       // names in first-join order
	refs  map[string]int // name -> live connection count
}

// snapshotState is one room's last-write-wins editor state.
type snapshotState struct {
	code     *string
	language *string
	theme    *string
}

// roomService keeps the registry and the state store as separate maps: only
// a join registers a room, while code/language/theme writes create just the
// snapshot entry.
type roomService struct {
	mu        sync.Mutex
	members   map[string]*memberState
	snapshots map[string]*snapshotState
}

func NewRoomService() IRoomService {
	return &roomService{
		members:   make(map[string]*memberState),
		snapshots: make(map[string]*snapshotState),
	}
}

// snapshotOf must be called with svc.mu held.
func (svc *roomService) snapshotOf(roomID string) *snapshotState {
	s, ok := svc.snapshots[roomID]
	if !ok {
		s = &snapshotState{}
		svc.snapshots[roomID] = s
	}
	return s
}

func (svc *roomService) Join(roomID, userName string) []string {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	// Registry entries persist for the life of the process once created;
	// there is no expiry and an emptied room stays known.
	r, ok := svc.members[roomID]
	if !ok {
		r = &memberState{refs: make(map[string]int)}
		svc.members[roomID] = r
	}
	if r.refs[userName] == 0 {
		r.order = append(r.order, userName)
	}
	r.refs[userName]++
	return membersOf(r)
}

func (svc *roomService) Leave(roomID, userName string) ([]string, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	r, ok := svc.members[roomID]
	if !ok {
		return nil, false
	}
	if r.refs[userName] == 0 {
		return membersOf(r), false
	}
	r.refs[userName]--
	if r.refs[userName] == 0 {
		delete(r.refs, userName)
		for i, name := range r.order {
			if name == userName {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	return membersOf(r), true
}

func (svc *roomService) Members(roomID string) ([]string, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	r, ok := svc.members[roomID]
	if !ok {
		return nil, false
	}
	return membersOf(r), true
}

func (svc *roomService) SetCode(roomID, code string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.snapshotOf(roomID).code = &code
}

func (svc *roomService) SetLanguage(roomID, language string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.snapshotOf(roomID).language = &language
}

func (svc *roomService) SetTheme(roomID, theme string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.snapshotOf(roomID).theme = &theme
}

func (svc *roomService) Snapshot(roomID string) (Snapshot, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	s, ok := svc.snapshots[roomID]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{Code: s.code, Language: s.language, Theme: s.theme}, true
}

func (svc *roomService) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.members = make(map[string]*memberState)
	svc.snapshots = make(map[string]*snapshotState)
}

func membersOf(r *memberState) []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

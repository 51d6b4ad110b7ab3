package multiplayer

import "github.com/wricardo/strands-coop/transport/wire"

// RoomDescriptor is one entry of a room listing.
type RoomDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	HasPassword bool   `json:"has_password"`
	Occupants   int    `json:"occupants"`
}

func descriptorFrom(e wire.RoomEntry) RoomDescriptor {
	return RoomDescriptor{ID: e.ID, Name: e.Name, HasPassword: e.HasPassword, Occupants: e.Occupants}
}

// Directory caches the latest room listing, keyed by room id. Each listing
// replaces it entirely.
type Directory struct {
	entries map[string]RoomDescriptor
	order   []string
}

// Reset empties the directory.
func (d *Directory) Reset() {
	d.entries = nil
	d.order = nil
}

// Put adds or replaces an entry. Listing order follows first arrival.
func (d *Directory) Put(e RoomDescriptor) {
	if d.entries == nil {
		d.entries = make(map[string]RoomDescriptor)
	}
	if _, ok := d.entries[e.ID]; !ok {
		d.order = append(d.order, e.ID)
	}
	d.entries[e.ID] = e
}

func (d *Directory) Get(id string) (RoomDescriptor, bool) {
	e, ok := d.entries[id]
	return e, ok
}

func (d *Directory) Len() int {
	return len(d.order)
}

// List returns a copy of the entries in listing order.
func (d *Directory) List() []RoomDescriptor {
	out := make([]RoomDescriptor, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.entries[id])
	}
	return out
}

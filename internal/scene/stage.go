package scene

import (
	"github.com/Iron-Ham/pcbuild/internal/errors"
)

// Entity is a loaded node of a scene's entity tree.
type Entity struct {
	Name       string
	Collidable bool
	Children   []*Entity
}

func buildEntities(descs []EntityDescriptor) []*Entity {
	out := make([]*Entity, len(descs))
	for i, d := range descs {
		out[i] = &Entity{Name: d.Name, Children: buildEntities(d.Children)}
	}
	return out
}

// Handle is one loaded instance of a scene, ready to be anchored on a Stage.
type Handle struct {
	desc     *Descriptor
	entities []*Entity
	triggers map[string]*Trigger
	stage    *Stage
}

func newHandle(d *Descriptor) *Handle {
	h := &Handle{
		desc:     d,
		entities: buildEntities(d.Entities),
		triggers: make(map[string]*Trigger, len(d.Notifications)),
	}
	for _, n := range d.Notifications {
		h.triggers[n.Name] = &Trigger{handle: h, name: n.Name, message: n.Message}
	}
	return h
}

// Name returns the scene name.
func (h *Handle) Name() string { return h.desc.Name }

// Title returns the scene title.
func (h *Handle) Title() string { return h.desc.Title }

// Entities returns the top-level entities.
func (h *Handle) Entities() []*Entity { return h.entities }

// GenerateCollisionShapes marks entities collidable and returns how many were
// marked. Without recursive only the top level is touched.
func (h *Handle) GenerateCollisionShapes(recursive bool) int {
	return markCollidable(h.entities, recursive)
}

func markCollidable(entities []*Entity, recursive bool) int {
	n := 0
	for _, e := range entities {
		e.Collidable = true
		n++
		if recursive {
			n += markCollidable(e.Children, true)
		}
	}
	return n
}

// Collidable counts entities with collision shapes anywhere in the tree.
func (h *Handle) Collidable() int {
	var count func([]*Entity) int
	count = func(es []*Entity) int {
		n := 0
		for _, e := range es {
			if e.Collidable {
				n++
			}
			n += count(e.Children)
		}
		return n
	}
	return count(h.entities)
}

// Notification returns the named trigger.
func (h *Handle) Notification(name string) (*Trigger, error) {
	t, ok := h.triggers[name]
	if !ok {
		return nil, errors.NewAssetError("resolving notification "+name, errors.ErrTriggerNotFound).
			WithScene(h.desc.Name)
	}
	return t, nil
}

// Trigger is a named notification exposed by a scene.
type Trigger struct {
	handle  *Handle
	name    string
	message string
	posts   int
}

// Name returns the trigger name.
func (t *Trigger) Name() string { return t.name }

// Message returns the text associated with the trigger.
func (t *Trigger) Message() string { return t.message }

// Posts returns how many times the trigger has fired.
func (t *Trigger) Posts() int { return t.posts }

// Post fires the trigger and informs the stage the scene is anchored on.
func (t *Trigger) Post() {
	t.posts++
	if s := t.handle.stage; s != nil {
		s.posted(Notification{
			Scene:   t.handle.Name(),
			Trigger: t.name,
			Message: t.message,
			Count:   t.posts,
		})
	}
}

// Notification describes a posted trigger.
type Notification struct {
	Scene   string
	Trigger string
	Message string
	Count   int
}

// Stage is the set of anchored scenes currently shown. It is owned by the UI
// loop and is not safe for concurrent use.
type Stage struct {
	anchors []*Handle
	posts   []Notification
	onPost  func(Notification)
	onLoad  func(*Handle)
}

// NewStage creates an empty stage.
func NewStage() *Stage {
	return &Stage{}
}

// OnNotification registers a hook called for every posted trigger.
func (s *Stage) OnNotification(fn func(Notification)) { s.onPost = fn }

// OnAppend registers a hook called whenever a scene is anchored.
func (s *Stage) OnAppend(fn func(*Handle)) { s.onLoad = fn }

// RemoveAll detaches every anchored scene.
func (s *Stage) RemoveAll() {
	for _, h := range s.anchors {
		h.stage = nil
	}
	s.anchors = nil
	s.posts = nil
}

// Append anchors h on the stage.
func (s *Stage) Append(h *Handle) {
	h.stage = s
	s.anchors = append(s.anchors, h)
	if s.onLoad != nil {
		s.onLoad(h)
	}
}

// Anchors returns the anchored scenes in order.
func (s *Stage) Anchors() []*Handle {
	out := make([]*Handle, len(s.anchors))
	copy(out, s.anchors)
	return out
}

// Posted returns the notifications posted since the last RemoveAll.
func (s *Stage) Posted() []Notification {
	out := make([]Notification, len(s.posts))
	copy(out, s.posts)
	return out
}

func (s *Stage) posted(n Notification) {
	s.posts = append(s.posts, n)
	if s.onPost != nil {
		s.onPost(n)
	}
}

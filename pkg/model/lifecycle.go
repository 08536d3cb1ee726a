package model

// Lifecycle exposes the save-relevant state of an entity. The save router
// reads it to select Insert, Update, or Delete.
type Lifecycle interface {
	// IsNew reports whether the entity has never been persisted.
	IsNew() bool
	// IsDeleted reports whether the entity is marked for removal.
	IsDeleted() bool
}

// OldMarker is implemented by entities that track persistence state. The save
// router calls MarkOld after a successful Insert or Update.
type OldMarker interface {
	MarkOld()
}

// SaveMeta is the embeddable default Lifecycle implementation.
//
//	type Person struct {
//		model.SaveMeta
//		Name string `json:"name"`
//	}
type SaveMeta struct {
	New     bool `json:"is_new"`
	Deleted bool `json:"is_deleted"`
}

// IsNew implements Lifecycle.
func (m *SaveMeta) IsNew() bool { return m.New }

// IsDeleted implements Lifecycle.
func (m *SaveMeta) IsDeleted() bool { return m.Deleted }

// MarkNew flags the entity as never persisted.
func (m *SaveMeta) MarkNew() { m.New = true }

// MarkOld flags the entity as persisted: not new, not deleted.
func (m *SaveMeta) MarkOld() {
	m.New = false
	m.Deleted = false
}

// MarkDeleted flags the entity for removal on the next save.
func (m *SaveMeta) MarkDeleted() { m.Deleted = true }

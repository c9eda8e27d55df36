package shared

// ConfirmStore is the slice of session behaviour DeleteConfirm needs.
type ConfirmStore interface {
	Get(key string) string
	Set(key, value string)
	Delete(key string)
}

// DeleteConfirm tracks the single row per list that is armed for deletion.
// The first delete request on a row arms it; only a second request on the
// same armed row goes through.
type DeleteConfirm struct {
	store  ConfirmStore
	entity string
}

// NewDeleteConfirm binds confirmation state for entity to store.
func NewDeleteConfirm(store ConfirmStore, entity string) DeleteConfirm {
	return DeleteConfirm{store: store, entity: entity}
}

func (c DeleteConfirm) key() string {
	return "confirm:" + c.entity
}

// Armed returns the armed id, or "" when nothing is armed.
func (c DeleteConfirm) Armed() string {
	if c.store == nil {
		return ""
	}
	return c.store.Get(c.key())
}

// Arm marks id as awaiting confirmation, replacing any previously armed row.
func (c DeleteConfirm) Arm(id string) {
	if c.store == nil || id == "" {
		return
	}
	c.store.Set(c.key(), id)
}

// Disarm clears the pending confirmation.
func (c DeleteConfirm) Disarm() {
	if c.store == nil {
		return
	}
	c.store.Delete(c.key())
}

// Confirm reports whether id was already armed. An armed id is consumed;
// any other id becomes the armed one and Confirm returns false.
func (c DeleteConfirm) Confirm(id string) bool {
	if c.store == nil || id == "" {
		return false
	}
	if c.Armed() == id {
		c.Disarm()
		return true
	}
	c.Arm(id)
	return false
}

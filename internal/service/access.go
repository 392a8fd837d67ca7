package service

import (
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/repository"
)

// threadReadable gates read access to a thread: the category read
// permission first, then the private flag. Private threads stay visible
// to staff and to users already watching them.
func threadReadable(watches repository.WatchRepository, actor *domain.Actor, thread *domain.Thread, category *domain.Category) (bool, error) {
	if !category.CanRead(actor) {
		return false, nil
	}
	if !thread.Private || actor.IsStaff() {
		return true, nil
	}
	if !actor.IsAuthenticated() {
		return false, nil
	}
	return watches.Exists(actor.ID, thread.ID)
}

package notify

import (
	"fmt"
	"time"

	"github.com/mjcnael/mechanical/internal/maintenance"
)

type Kind string

const (
	KindImportantTaskAssigned Kind = "important_task_assigned"
	KindTaskDone              Kind = "task_done"
	KindTaskCancelled         Kind = "task_cancelled"
)

// Notification - сообщение начальнику цеха о задаче
type Notification struct {
	Kind        Kind
	TaskID      int64
	RecipientID int64
	Recipient   string
	Message     string
	CreatedAt   time.Time
}

// classify возвращает вид уведомления; false - событие уведомления не требует
func classify(event maintenance.TaskEvent) (Kind, bool) {
	switch event.Type {
	case maintenance.TaskCreated:
		if event.Important {
			return KindImportantTaskAssigned, true
		}
	case maintenance.TaskStatusChanged:
		switch maintenance.Status(event.Status) {
		case maintenance.StatusDone:
			return KindTaskDone, true
		case maintenance.StatusCancelled:
			return KindTaskCancelled, true
		}
	}
	return "", false
}

func newNotification(kind Kind, event maintenance.TaskEvent, foreman maintenance.Foreman) Notification {
	var message string
	switch kind {
	case KindImportantTaskAssigned:
		message = fmt.Sprintf("Важная задача %d назначена техническому работнику %d (цех %q)",
			event.TaskID, event.TechnicianID, event.Workshop)
	case KindTaskDone:
		message = fmt.Sprintf("Задача %d выполнена техническим работником %d", event.TaskID, event.TechnicianID)
	case KindTaskCancelled:
		message = fmt.Sprintf("Задача %d отменена", event.TaskID)
	}

	return Notification{
		Kind:        kind,
		TaskID:      event.TaskID,
		RecipientID: foreman.ID,
		Recipient:   foreman.FullName,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}
}

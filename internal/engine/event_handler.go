package engine

import (
	"fmt"

	"github.com/PatxiBS/ud2-storageFork/internal/models"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Translates a file system event into a change event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	name, ok := w.fileName(event.Name)
	if !ok {
		return
	}
	logrus.WithFields(logrus.Fields{"file": name, "op": event.Op.String()}).Debug("Storage event received")

	switch {
	case event.Has(fsnotify.Create):
		w.handleCreateEvent(event, name)
	case event.Has(fsnotify.Remove):
		w.handleRemoveEvent(name, models.EventDelete, fmt.Sprintf("File deleted: %s", name))
	case event.Has(fsnotify.Rename):
		w.handleRemoveEvent(name, models.EventMove, fmt.Sprintf("File moved or renamed: %s", name))
	case event.Has(fsnotify.Write):
		w.handleWriteEvent(name)
	}
}

// Processes file creation events. Directories are not part of the namespace.
func (w *Watcher) handleCreateEvent(event fsnotify.Event, name string) {
	if !isRegularFile(event.Name) {
		return
	}
	w.markEmitted(name)
	w.emit(models.EventCreate, name, fmt.Sprintf("File created: %s", name))
}

// Processes file deletion and rename events.
func (w *Watcher) handleRemoveEvent(name, eventType, message string) {
	w.forget(name)
	w.emit(eventType, name, message)
}

// Processes file modification events. Writes right after a create or
// another write are folded into the earlier event.
func (w *Watcher) handleWriteEvent(name string) {
	if !w.shouldEmit(name) {
		return
	}
	w.emit(models.EventUpdate, name, fmt.Sprintf("File updated: %s", name))
}

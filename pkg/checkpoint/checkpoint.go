package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"tagscrape/pkg/carddb"
	"tagscrape/pkg/logger"
	"tagscrape/pkg/storage"
)

// State is the resumable progress of a build: which tags are done and every
// card merged so far
type State struct {
	Processed   map[string]bool
	Cards       *carddb.DB
	LastUpdated time.Time
}

// NewState returns an empty state
func NewState() *State {
	return &State{
		Processed: make(map[string]bool),
		Cards:     carddb.New(),
	}
}

// IsProcessed reports whether tag has been fully merged
func (s *State) IsProcessed(tag string) bool {
	return s.Processed[tag]
}

// MarkProcessed records tag as fully merged
func (s *State) MarkProcessed(tag string) {
	s.Processed[tag] = true
}

// ProcessedTags returns the processed tags in sorted order
func (s *State) ProcessedTags() []string {
	tags := make([]string, 0, len(s.Processed))
	for tag := range s.Processed {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// document is the on-disk checkpoint format
type document struct {
	ProcessedTags []string                 `json:"processed_tags"`
	CardsDB       map[string]carddb.Record `json:"cards_db"`
	LastUpdated   string                   `json:"last_updated"`
}

// Manager handles checkpoint operations
type Manager struct {
	checkpointPath string
	logger         logger.Logger
}

// NewManager creates a checkpoint manager for the file at path
func NewManager(path string) *Manager {
	return &Manager{
		checkpointPath: path,
		logger:         logger.GetLogger().WithField("component", "checkpoint"),
	}
}

// WithLogger replaces the manager's logger
func (m *Manager) WithLogger(l logger.Logger) *Manager {
	m.logger = l
	return m
}

// Path returns the checkpoint file path
func (m *Manager) Path() string {
	return m.checkpointPath
}

// Load reads the checkpoint. A missing file yields an empty state. A file
// that cannot be parsed is logged and also yields an empty state, so a
// corrupt checkpoint costs a fresh run instead of blocking one.
func (m *Manager) Load() (*State, error) {
	file, err := os.Open(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer file.Close()

	var doc document
	decoder := json.NewDecoder(file)
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		m.logger.WithError(err).WarnWithFields("Could not load checkpoint, starting fresh", map[string]interface{}{
			"path": m.checkpointPath,
		})
		return NewState(), nil
	}

	state, err := fromDocument(&doc)
	if err != nil {
		m.logger.WithError(err).WarnWithFields("Checkpoint content is invalid, starting fresh", map[string]interface{}{
			"path": m.checkpointPath,
		})
		return NewState(), nil
	}

	m.logger.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"processed_tags": len(state.Processed),
		"cards":          state.Cards.Len(),
		"last_updated":   doc.LastUpdated,
	})

	return state, nil
}

func fromDocument(doc *document) (*State, error) {
	cards, err := carddb.FromSnapshot(doc.CardsDB)
	if err != nil {
		return nil, err
	}

	state := &State{
		Processed: make(map[string]bool, len(doc.ProcessedTags)),
		Cards:     cards,
	}
	for _, tag := range doc.ProcessedTags {
		state.Processed[tag] = true
	}
	if doc.LastUpdated != "" {
		if ts, err := time.Parse(time.RFC3339Nano, doc.LastUpdated); err == nil {
			state.LastUpdated = ts
		}
	}
	return state, nil
}

// Save writes the whole state to disk atomically
func (m *Manager) Save(state *State) error {
	state.LastUpdated = time.Now()

	cards := state.Cards.Snapshot()
	doc := document{
		ProcessedTags: state.ProcessedTags(),
		CardsDB:       cards,
		LastUpdated:   state.LastUpdated.Format(time.RFC3339Nano),
	}

	if err := storage.WriteJSON(m.checkpointPath, doc); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	m.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"processed_tags": len(doc.ProcessedTags),
		"cards":          len(cards),
		"labels":         state.Cards.LabelCount(),
	})

	return nil
}

// Delete removes the checkpoint file
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	m.logger.Info("Checkpoint deleted")
	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	return storage.Exists(m.checkpointPath)
}

// BackupPath returns where Backup copies the checkpoint
func (m *Manager) BackupPath() string {
	return m.checkpointPath + ".backup"
}

// Backup copies the current checkpoint next to itself
func (m *Manager) Backup() error {
	if !m.Exists() {
		return nil
	}

	if err := storage.CopyFile(m.checkpointPath, m.BackupPath()); err != nil {
		return fmt.Errorf("failed to back up checkpoint: %w", err)
	}

	m.logger.DebugWithFields("Checkpoint backed up", map[string]interface{}{
		"backup": m.BackupPath(),
	})
	return nil
}

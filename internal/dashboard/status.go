package dashboard

import (
	"encoding/json"

	"csvdash/internal/errors"
	"csvdash/internal/log"
)

// StatusKey is the store key holding the serialized FileStatus.
const StatusKey = "fileStatus"

// FileStatus maps folder -> file -> active. A missing entry means active.
type FileStatus map[string]map[string]bool

// IsActive returns the effective status of a pair.
func (s FileStatus) IsActive(folder, file string) bool {
	active, ok := s[folder][file]
	if !ok {
		return true
	}
	return active
}

// Toggle inverts the effective status of a pair and returns the new value.
func (s FileStatus) Toggle(folder, file string) bool {
	next := !s.IsActive(folder, file)
	if s[folder] == nil {
		s[folder] = make(map[string]bool)
	}
	s[folder][file] = next
	return next
}

// Clone deep-copies the mapping.
func (s FileStatus) Clone() FileStatus {
	out := make(FileStatus, len(s))
	for folder, files := range s {
		m := make(map[string]bool, len(files))
		for file, active := range files {
			m[file] = active
		}
		out[folder] = m
	}
	return out
}

// Encode serializes the mapping as JSON.
func (s FileStatus) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", errors.NewStoreError("failed to encode file status", StatusKey, errors.PersistFailed, err)
	}
	return string(data), nil
}

// DecodeStatus parses a stored value. Anything other than an object of
// objects of booleans is corrupt. Null entries count as absent.
func DecodeStatus(value string) (FileStatus, error) {
	var raw map[string]map[string]*bool
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, errors.NewStoreError("stored file status is corrupt", StatusKey, errors.CorruptState, err)
	}
	s := make(FileStatus, len(raw))
	for folder, files := range raw {
		for file, active := range files {
			if active == nil {
				continue
			}
			if s[folder] == nil {
				s[folder] = make(map[string]bool)
			}
			s[folder][file] = *active
		}
	}
	return s, nil
}

// Hydrate replaces the in-memory status with the stored one. A missing,
// unreadable or corrupt value leaves every file active.
func (c *Controller) Hydrate() {
	status := FileStatus{}

	value, ok, err := c.kv.Get(StatusKey)
	switch {
	case err != nil:
		c.logger.WithError(err).Warn("Could not read saved file status")
	case ok:
		decoded, err := DecodeStatus(value)
		if err != nil {
			c.logger.WithError(err).Warn("Ignoring corrupt saved file status")
			break
		}
		status = decoded
	}

	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
	c.logger.With(log.F("folders", len(status))).Debug("Hydrated file status")
}

// persist writes the status when it is non-empty. Failures are logged and
// dropped. Callers hold c.mu.
func (c *Controller) persist() {
	if len(c.status) == 0 {
		return
	}
	value, err := c.status.Encode()
	if err == nil {
		err = c.kv.Set(StatusKey, value)
	}
	c.metrics.RecordWrite(err)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to persist file status")
	}
}

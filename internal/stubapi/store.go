package stubapi

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type userRecord struct {
	ID           string
	Email        string
	Phone        string
	PasswordHash []byte
	Verified     bool
	Name         string
	Role         string
	HRID         string
	Department   string
	Position     string
}

type jobRecord struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Department  string
	Skills      []string
	Experience  string
	Location    string
	JobType     string
	ResumeIDs   []string
}

type resumeRecord struct {
	ID       string
	UserID   string
	Filename string
	Filepath string
	RawText  string
	Category string
}

type notificationRecord struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      string
	Read      bool
	CreatedAt time.Time
}

// memoryDB is the sandbox's whole persistence layer.
type memoryDB struct {
	mu            sync.RWMutex
	users         map[string]*userRecord // by email
	jobs          map[string]*jobRecord
	resumes       map[string]*resumeRecord
	notifications map[string][]*notificationRecord // by user id, newest first
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users:         map[string]*userRecord{},
		jobs:          map[string]*jobRecord{},
		resumes:       map[string]*resumeRecord{},
		notifications: map[string][]*notificationRecord{},
	}
}

func (db *memoryDB) userByEmail(email string) (userRecord, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	u, ok := db.users[email]
	if !ok {
		return userRecord{}, false
	}
	return *u, true
}

func (db *memoryDB) saveUser(u userRecord) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users[u.Email] = &u
}

func (db *memoryDB) saveJob(j jobRecord) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.jobs[j.ID] = &j
}

func (db *memoryDB) job(id string) (jobRecord, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	j, ok := db.jobs[id]
	if !ok {
		return jobRecord{}, false
	}
	c := *j
	c.Skills = append([]string(nil), j.Skills...)
	c.ResumeIDs = append([]string(nil), j.ResumeIDs...)
	return c, true
}

func (db *memoryDB) attachResumes(jobID string, ids []string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	j, ok := db.jobs[jobID]
	if !ok {
		return
	}
	for _, id := range ids {
		found := false
		for _, existing := range j.ResumeIDs {
			if existing == id {
				found = true
				break
			}
		}
		if !found {
			j.ResumeIDs = append(j.ResumeIDs, id)
		}
	}
}

func (db *memoryDB) saveResume(r resumeRecord) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.resumes[r.ID] = &r
}

func (db *memoryDB) resume(id string) (resumeRecord, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	r, ok := db.resumes[id]
	if !ok {
		return resumeRecord{}, false
	}
	return *r, true
}

func (db *memoryDB) resumeByPath(path string) (resumeRecord, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, r := range db.resumes {
		if r.Filepath == path {
			return *r, true
		}
	}
	return resumeRecord{}, false
}

func (db *memoryDB) notify(userID, title, message, kind string) {
	if userID == "" {
		return
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	n := &notificationRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		CreatedAt: time.Now().UTC(),
	}
	db.notifications[userID] = append([]*notificationRecord{n}, db.notifications[userID]...)
}

func (db *memoryDB) listNotifications(userID string) []notificationRecord {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]notificationRecord, 0, len(db.notifications[userID]))
	for _, n := range db.notifications[userID] {
		out = append(out, *n)
	}
	return out
}

func (db *memoryDB) markRead(userID, id string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, n := range db.notifications[userID] {
		if id == "" || n.ID == id {
			n.Read = true
		}
	}
}

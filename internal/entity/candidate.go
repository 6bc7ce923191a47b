package entity

import "sort"

type Candidate struct {
	ID              string   `json:"id"`
	ResumeID        string   `json:"resume_id"`
	Filename        string   `json:"filename"`
	Filepath        string   `json:"filepath,omitempty"`
	MatchScore      int      `json:"matchScore"`
	MatchedSkills   []string `json:"matchedSkills"`
	Category        string   `json:"category"`
	ExperienceLevel string   `json:"experience"`
	RawText         string   `json:"rawText,omitempty"`
}

// FilterCriteria drives the candidate results view. It is never persisted.
type FilterCriteria struct {
	Category string `json:"category"`
	MinScore int    `json:"minScore"`
	MaxScore int    `json:"maxScore"`
	TopN     int    `json:"showTop"`
	ShowAll  bool   `json:"-"`
}

func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{MinScore: 0, MaxScore: 100, TopN: 10}
}

// Apply ranks candidates by score, then filters by category, score range and
// top-N in that order. The input is never modified; equal scores keep their
// original order.
func (c FilterCriteria) Apply(candidates []Candidate) []Candidate {
	ranked := append([]Candidate(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	out := make([]Candidate, 0, len(ranked))
	for _, cand := range ranked {
		if c.Category != "" && cand.Category != c.Category {
			continue
		}
		if cand.MatchScore < c.MinScore || cand.MatchScore > c.MaxScore {
			continue
		}
		out = append(out, cand)
	}
	if !c.ShowAll && c.TopN >= 0 && len(out) > c.TopN {
		out = out[:c.TopN]
	}
	return out
}

// UploadedFile is an opaque handle to a resume selected on the local machine.
type UploadedFile struct {
	ID   string
	Name string
	Size int64
	Path string
}

// ResumePreview is the single payload of the resume modal, for both text and PDF content.
type ResumePreview struct {
	ResumeID    string
	Filename    string
	Filepath    string
	Title       string
	ContentType string
	Text        string
	PDF         []byte
	Pages       int
}

func (p ResumePreview) IsPDF() bool {
	return p.ContentType == "application/pdf"
}

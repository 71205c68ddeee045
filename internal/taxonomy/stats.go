// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import "devmastery/internal/models"

// Stats summarizes a topic list for display.
type Stats struct {
	TopicCount   int `json:"topicCount"`
	BlogCount    int `json:"blogCount"`
	NoteCount    int `json:"noteCount"`
	ProblemCount int `json:"problemCount"`
}

// ComputeStats sums the topic-level counts of topics. Subtopic counts are
// not added on top: they are reported separately on each subtopic.
func ComputeStats(topics []models.Topic) Stats {
	s := Stats{TopicCount: len(topics)}
	for _, t := range topics {
		s.BlogCount += t.Count.Blogs
		s.NoteCount += t.Count.Notes
		s.ProblemCount += t.Count.LeetcodeProblems
	}
	return s
}

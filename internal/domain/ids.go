package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type IDPrefix string

const (
	PrefixStudent    IDPrefix = "ST"
	PrefixInstructor IDPrefix = "IN"
	PrefixCourse     IDPrefix = "CO"
	PrefixLesson     IDPrefix = "LE"
	PrefixAssignment IDPrefix = "AS"
	PrefixEnrollment IDPrefix = "EN"
	PrefixSubmission IDPrefix = "SU"
)

// AllPrefixes maps every prefix to the collection its IDs live in.
var AllPrefixes = map[IDPrefix]string{
	PrefixStudent:    CollectionUsers,
	PrefixInstructor: CollectionUsers,
	PrefixCourse:     CollectionCourses,
	PrefixLesson:     CollectionLessons,
	PrefixAssignment: CollectionAssignments,
	PrefixEnrollment: CollectionEnrollments,
	PrefixSubmission: CollectionSubmissions,
}

func PrefixForRole(r Role) IDPrefix {
	if r == RoleInstructor {
		return PrefixInstructor
	}
	return PrefixStudent
}

// FormatID renders prefix_seq with seq zero-padded to three digits.
func FormatID(prefix IDPrefix, seq int64) string {
	return fmt.Sprintf("%s_%03d", prefix, seq)
}

// ParseID splits an ID into prefix and sequence.
func ParseID(id string) (IDPrefix, int64, bool) {
	i := strings.LastIndexByte(id, '_')
	if i <= 0 || i == len(id)-1 {
		return "", 0, false
	}
	n, err := strconv.ParseInt(id[i+1:], 10, 64)
	if err != nil || n < 0 {
		return "", 0, false
	}
	return IDPrefix(id[:i]), n, true
}

// MaxSequence returns the highest sequence among ids carrying prefix.
func MaxSequence(prefix IDPrefix, ids []string) int64 {
	var max int64
	for _, id := range ids {
		p, n, ok := ParseID(id)
		if !ok || p != prefix {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

package services

// Reserved AI opponent identifiers, one per difficulty tier. They are valid
// players in any match but never exist in the users table and never have
// rating changes persisted.
var AINames = []string{"ai_easy", "ai_medium", "ai_hard"}

// AIRatings are the fixed synthetic ratings used when rating a human against
// an AI opponent, indexed like AINames.
var AIRatings = []int{1200, 1500, 1800}

// IsAI reports whether a username is a reserved AI identifier.
func IsAI(username string) bool {
	for _, name := range AINames {
		if name == username {
			return true
		}
	}
	return false
}

// AIRating returns the synthetic rating of an AI opponent, or DefaultRating
// for anything else.
func AIRating(username string) int {
	for i, name := range AINames {
		if name == username {
			return AIRatings[i]
		}
	}
	return DefaultRating
}

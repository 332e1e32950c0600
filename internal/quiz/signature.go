package quiz

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/kasitis/tests1/internal/model"
)

// Signature fingerprints the inputs whose change requires a fresh session:
// the profile's identity, its question list content, and its settings.
// Callers compare signatures to decide when to rebuild the engine while a
// quiz is not showing results.
func Signature(p model.TestProfile) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(p.ID)
	_ = enc.Encode(p.Questions)
	_ = enc.Encode(p.Settings)
	return hex.EncodeToString(h.Sum(nil))
}

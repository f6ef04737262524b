package manifest

import (
	"sort"
	"strings"
)

// DefaultOursToken is the model token assigned to Ours__ renditions.
const DefaultOursToken = "HIFI-Foley"

// DefaultGTToken is the filename token of ground-truth renditions.
const DefaultGTToken = "GT"

// methodIDByToken maps render-pipeline model tokens to method ids. Tokens
// not listed fall back to their lowercased form, which the page renders
// with the raw id.
var methodIDByToken = map[string]string{
	"GT":           "ground-truth",
	"HIFI-Foley":   "hifi-foley",
	"FoleyCrafter": "foleycrafter",
	"Frieren":      "frieren",
	"MMAudio":      "mmaudio",
	"ThinkSound":   "thinksound",
	"V_AURA":       "v-aura",
}

// canonicalOrder is the published presentation order for known methods.
var canonicalOrder = []string{
	"ground-truth",
	"hifi-foley",
	"foleycrafter",
	"frieren",
	"mmaudio",
	"thinksound",
	"v-aura",
}

// MethodID resolves a filename model token to its method id.
func MethodID(token string) string {
	if id, ok := methodIDByToken[token]; ok {
		return id
	}
	return strings.ToLower(token)
}

// rankMethod orders method ids for emission: ground truth, then ours, then
// the remaining known methods in canonical order, then everything else.
func rankMethod(id, oursID string) int {
	if id == "ground-truth" {
		return 0
	}
	if id == oursID {
		return 1
	}
	for i, c := range canonicalOrder {
		if id == c {
			return 2 + i
		}
	}
	return 2 + len(canonicalOrder)
}

// emissionOrder sorts method ids into the order their videos keys are
// written. Unknown methods tie on rank and fall back to name order.
func emissionOrder(ids []string, oursID string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rankMethod(out[i], oursID), rankMethod(out[j], oursID)
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

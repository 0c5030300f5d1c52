package genre

import (
	"strings"
)

// Genre is a value of the local genre taxonomy. The string form is the
// canonical code persisted in the catalog.
type Genre string

const (
	Action      Genre = "action"
	Adventure   Genre = "adventure"
	Animation   Genre = "animation"
	Comedy      Genre = "comedy"
	Crime       Genre = "crime"
	Documentary Genre = "documentary"
	Drama       Genre = "drama"
	Family      Genre = "family"
	Fantasy     Genre = "fantasy"
	History     Genre = "history"
	Horror      Genre = "horror"
	Music       Genre = "music"
	Mystery     Genre = "mystery"
	Romance     Genre = "romance"
	SF          Genre = "sf"
	Thriller    Genre = "thriller"
	War         Genre = "war"
	Western     Genre = "western"
)

var all = []Genre{
	Action, Adventure, Animation, Comedy, Crime, Documentary, Drama, Family, Fantasy,
	History, Horror, Music, Mystery, Romance, SF, Thriller, War, Western,
}

// labels holds the display names the registry emits for each genre.
var labels = map[Genre]string{
	Action:      "액션",
	Adventure:   "어드벤처",
	Animation:   "애니메이션",
	Comedy:      "코미디",
	Crime:       "범죄",
	Documentary: "다큐멘터리",
	Drama:       "드라마",
	Family:      "가족",
	Fantasy:     "판타지",
	History:     "사극",
	Horror:      "공포",
	Music:       "뮤지컬",
	Mystery:     "미스터리",
	Romance:     "로맨스",
	SF:          "SF",
	Thriller:    "스릴러",
	War:         "전쟁",
	Western:     "서부극",
}

// byName indexes every genre by its lowercased code and display name.
var byName = func() map[string]Genre {
	index := make(map[string]Genre, len(all)*2)
	for _, g := range all {
		index[string(g)] = g
		index[strings.ToLower(labels[g])] = g
	}
	return index
}()

// All returns every taxonomy value in declaration order.
func All() []Genre {
	out := make([]Genre, len(all))
	copy(out, all)
	return out
}

// Label returns the display name of the genre.
func (g Genre) Label() string {
	if label, ok := labels[g]; ok {
		return label
	}
	return string(g)
}

// Valid reports whether g belongs to the taxonomy.
func (g Genre) Valid() bool {
	_, ok := labels[g]
	return ok
}

// Parse resolves a code or display name, ignoring case and whitespace.
func Parse(name string) (Genre, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(name), ""))
	if key == "" {
		return "", false
	}
	g, ok := byName[key]
	return g, ok
}

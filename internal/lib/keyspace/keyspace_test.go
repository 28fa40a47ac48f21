package keyspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/relief-anchor/internal/lib/keyspace"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		owner string
		want  string
	}{
		{name: "нижний регистр без изменений", owner: "a@x.com", want: "a@x.com"},
		{name: "приведение регистра", owner: "A@X.Com", want: "a@x.com"},
		{name: "пробелы по краям", owner: "  a@x.com  ", want: "a@x.com"},
		{name: "недопустимые символы отбрасываются", owner: "a|b@x.com<script>", want: "ab@x.comscript"},
		{name: "плюс-адресация сохраняется", owner: "a+tag@x.com", want: "a+tag@x.com"},
		{name: "кириллица отбрасывается", owner: "почтаa@x.com", want: "a@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyspace.Normalize(tt.owner))
		})
	}
}

func TestDerive_DistinctKeysPerOwner(t *testing.T) {
	a := keyspace.Derive("a@x.com")
	b := keyspace.Derive("b@y.com")

	assert.NotEqual(t, a.User, b.User)
	assert.NotEqual(t, a.Moods, b.Moods)
	assert.NotEqual(t, a.Chat, b.Chat)
	assert.NotEqual(t, a.Journal, b.Journal)
}

func TestDerive_CaseInsensitiveCollision(t *testing.T) {
	// Регистронезависимое совпадение — ожидаемое поведение, не ошибка.
	assert.Equal(t, keyspace.Derive("User@X.com"), keyspace.Derive("user@x.com"))
}

func TestDerive_KeyShape(t *testing.T) {
	keys := keyspace.Derive("a@x.com")

	assert.Equal(t, "relief_anchor_user:a@x.com", keys.User)
	assert.Equal(t, "relief_anchor_moods:a@x.com", keys.Moods)
	assert.Equal(t, "relief_anchor_chat:a@x.com", keys.Chat)
	assert.Equal(t, "relief_anchor_journal:a@x.com", keys.Journal)
}

package synonyms

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrConflict is returned when a custom synonym would reassign a word that
// already belongs to a different group.
var ErrConflict = errors.New("synonym already belongs to another group")

// Dictionary maps interchangeable surface forms of Turkish voice commands to
// a canonical group key. Lookups and AddSynonym are safe for concurrent use.
type Dictionary struct {
	mu          sync.RWMutex
	groups      map[string]map[string]struct{}
	wordToGroup map[string]string
}

// Lower lowercases s with Turkish casing rules ("İ" -> "i", "I" -> "ı").
// strings.ToLower would mangle dotted/dotless i pairs.
func Lower(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// NewDictionary builds the seeded dictionary.
func NewDictionary() *Dictionary {
	d := &Dictionary{
		groups:      make(map[string]map[string]struct{}),
		wordToGroup: make(map[string]string),
	}
	d.seed()
	return d
}

func (d *Dictionary) seed() {
	// Application names
	d.addGroup("outlook", "mail", "email", "e-posta", "eposta", "meyil", "posta", "meil")
	d.addGroup("excel", "eksel", "tablo", "hesap tablosu", "spreadsheet")
	d.addGroup("word", "vörd", "kelime", "belge", "doküman", "yazı", "world")
	d.addGroup("powerpoint", "sunum", "slayt", "prezentasyon", "ppt")
	d.addGroup("chrome", "krom", "tarayıcı", "browser", "internet")
	d.addGroup("notepad", "not defteri", "notdefteri", "metin editörü")
	d.addGroup("calculator", "hesap makinesi", "hesaplayıcı", "calc")
	d.addGroup("teams", "tims", "toplantı")

	// Verbs
	d.addGroup("aç", "başlat", "çalıştır", "getir", "göster", "yükle", "open", "start")
	d.addGroup("kapat", "kapa", "sonlandır", "bitir", "durdur", "kıll", "close")
	d.addGroup("ara", "bul", "search", "find", "arat")
	d.addGroup("oku", "göster", "listele", "getir")
	d.addGroup("yaz", "oluştur", "yarat", "ekle", "yeni")
	d.addGroup("sil", "kaldır", "temizle", "remove", "delete")
	d.addGroup("kaydet", "sakla", "save", "kayıt et")
	d.addGroup("gönder", "yolla", "at", "ilet", "send")

	// File-type nouns
	d.addGroup("dosya", "file", "döküman", "belge")
	d.addGroup("klasör", "dizin", "folder", "directory")
	d.addGroup("resim", "görsel", "fotoğraf", "foto", "image", "picture")
	d.addGroup("video", "film", "klip")
	d.addGroup("müzik", "şarkı", "ses", "audio", "mp3")
	d.addGroup("pdf", "pıdıef")

	// Time words
	d.addGroup("bugün", "bu gün")
	d.addGroup("yarın", "ertesi gün")
	d.addGroup("dün", "önceki gün")
	d.addGroup("şimdi", "hemen", "anında")
	d.addGroup("son", "en son", "sonuncu", "last")
	d.addGroup("yeni", "taze", "fresh", "new")

	// System vocabulary
	d.addGroup("ses", "volume", "volüm", "sesi")
	d.addGroup("ekran", "monitör", "display", "görüntü")
	d.addGroup("kilitle", "lock", "kitle")
	d.addGroup("kapat", "shutdown", "şatdown")
	d.addGroup("yeniden başlat", "restart", "reboot", "yeniden", "restrat")

	// Locations
	d.addGroup("masaüstü", "desktop", "masaüstüm")
	d.addGroup("belgeler", "documents", "belgelerim", "dokümanlar")
	d.addGroup("indirilenler", "downloads", "indirilənler", "yüklemeler")
	d.addGroup("resimler", "pictures", "görseller", "fotoğraflar")

	// News and media vocabulary
	d.addGroup("haber", "haberler", "news", "yenilik", "gelişme")
	d.addGroup("gündem", "trend", "trendler", "konuşulan", "popüler")
	d.addGroup("son dakika", "breaking", "acil", "şimdi", "anlık")
	d.addGroup("teknoloji", "tech", "teknolojik", "dijital")
	d.addGroup("ekonomi", "finans", "finance", "business", "mali")
	d.addGroup("spor", "sports", "futbol", "basketbol", "atletizm")
	d.addGroup("sağlık", "health", "tıp", "doktor", "hasta")
	d.addGroup("dünya", "world", "uluslararası", "international", "global")
	d.addGroup("magazin", "entertainment", "eğlence", "şov", "star")
	d.addGroup("siyaset", "politics", "politika", "hükümet", "parti")

	// Social media and web
	d.addGroup("twitter", "x", "tweets", "tweetler")
	d.addGroup("vikipedi", "wikipedia", "ansiklopedi", "bilgi")
	d.addGroup("internet", "web", "online", "çevrimiçi")

	// Question words
	d.addGroup("nedir", "ne demek", "tanım", "açıklama", "bilgi")
	d.addGroup("kimdir", "kim", "hakkında", "who")
	d.addGroup("nasıl", "how", "ne şekilde")
	d.addGroup("nerede", "where", "hangi yer")
	d.addGroup("ne zaman", "when", "hangi zaman")
}

// addGroup registers a group keyed by its first member. Seed data reassigns a
// few words between groups ("göster", "şimdi"); the last group registered
// wins and the word is dropped from its previous group so groups stay
// disjoint.
func (d *Dictionary) addGroup(words ...string) {
	if len(words) < 2 {
		return
	}

	key := Lower(words[0])
	set, ok := d.groups[key]
	if !ok {
		set = make(map[string]struct{}, len(words))
		d.groups[key] = set
	}

	for _, w := range words {
		w = Lower(w)
		if prev, ok := d.wordToGroup[w]; ok && prev != key {
			delete(d.groups[prev], w)
		}
		set[w] = struct{}{}
		d.wordToGroup[w] = key
	}
}

// Canonical returns the group key for word, or the lowercased word itself
// when it belongs to no group.
func (d *Dictionary) Canonical(word string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.canonical(word)
}

func (d *Dictionary) canonical(word string) string {
	if strings.TrimSpace(word) == "" {
		return word
	}
	w := Lower(strings.TrimSpace(word))
	if key, ok := d.wordToGroup[w]; ok {
		return key
	}
	return w
}

// Normalize rewrites text word-by-word to canonical forms, joined by single
// spaces. Two-word phrases are tried before single words so multi-word
// surface forms ("hesap tablosu", "yeniden başlat") canonicalize as a unit;
// this also keeps Normalize idempotent when a canonical form is itself
// multi-word. Unknown words pass through lowercased, so literal non-canonical
// forms can still match patterns.
func (d *Dictionary) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	words := strings.Fields(text)
	normalized := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if i+1 < len(words) {
			pair := Lower(words[i]) + " " + Lower(words[i+1])
			if key, ok := d.wordToGroup[pair]; ok {
				normalized = append(normalized, key)
				i += 2
				continue
			}
		}
		normalized = append(normalized, d.canonical(words[i]))
		i++
	}
	return strings.Join(normalized, " ")
}

// AreSynonyms reports whether both words resolve to the same group.
func (d *Dictionary) AreSynonyms(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return d.Canonical(a) == d.Canonical(b)
}

// Synonyms returns every member of the word's group, or just the word itself
// when it is not grouped.
func (d *Dictionary) Synonyms(word string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	canonical := d.canonical(word)
	set, ok := d.groups[canonical]
	if !ok {
		return []string{canonical}
	}
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	return out
}

// AddSynonym registers synonym as a member of word's group, creating the
// group when word is unknown. Reassigning a word that already belongs to a
// different group is rejected with ErrConflict; adding an existing member is
// a no-op.
func (d *Dictionary) AddSynonym(word, synonym string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	canonical := d.canonical(word)
	syn := Lower(strings.TrimSpace(synonym))
	if syn == "" {
		return errors.New("empty synonym")
	}

	if prev, ok := d.wordToGroup[syn]; ok {
		if prev == canonical {
			return nil
		}
		return ErrConflict
	}

	set, ok := d.groups[canonical]
	if !ok {
		set = map[string]struct{}{canonical: {}}
		d.groups[canonical] = set
		d.wordToGroup[canonical] = canonical
	}
	set[syn] = struct{}{}
	d.wordToGroup[syn] = canonical
	return nil
}

package intent

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"

	"github.com/quadroai/voicepilot/internal/synonyms"
	"github.com/quadroai/voicepilot/pkg/models"
)

// rule is one compiled pattern. Capture groups bind positionally to entity
// names; groups beyond the declared names are ignored.
type rule struct {
	expr       *regexp2.Regexp
	intentType models.IntentType
	entities   []string
}

// Catalog matches a normalized utterance against an ordered rule list.
// Registration order is part of the contract: exclusion lookaheads and other
// specific rules run before the generic catch-alls, so reordering rules
// changes semantics. Custom rules appended at runtime evaluate after the
// built-ins.
type Catalog struct {
	mu     sync.RWMutex
	rules  []*rule
	dict   *synonyms.Dictionary
	logger *zap.Logger
}

// NewCatalog builds the catalog with the built-in Turkish command rules.
func NewCatalog(dict *synonyms.Dictionary, logger *zap.Logger) *Catalog {
	c := &Catalog{dict: dict, logger: logger}
	c.registerBuiltins()
	return c
}

// systemControlAlternation keeps the generic "open X" / "close X" catch-alls
// from swallowing system-control phrases such as "ses aç".
const systemControlAlternation = `ses|sesi|volume|volüm|pencere|pencereyi|sekme|sekmeyi|uygulama|uygulamayı|belgeler|belgelerim|resimler|resimlerim|müzik|müziğim|videolar|videolarım|indirilenler|masaüstü|desktop|downloads|dosya gezgini|takvim|takvimi|calendar|caps lock|capslock|çalıştır penceresi|görev görünümü`

const closeExclusionAlternation = `ses|sesi|volume|volüm|pencere|pencereyi|sekme|sekmeyi|uygulama|uygulamayı`

func (c *Catalog) registerBuiltins() {
	add := func(pattern string, t models.IntentType, entities ...string) {
		if err := c.AddCustomPattern(pattern, t, entities); err != nil {
			// Built-in patterns are fixed strings; a compile failure here is
			// a programming error worth failing loudly on.
			panic(fmt.Sprintf("built-in pattern %q: %v", pattern, err))
		}
	}

	// System controls first, they have top precedence.
	// Volume.
	add(`^(ses|sesi|volume|volüm)\s*(aç|kapat|artır|arttır|azalt|kıs)$`,
		models.IntentSystemControl, "target", "action")
	add(`^(ses|sesi|volume|volüm)\s+(seviyesini|seviyeyi)\s*(artır|arttır|azalt|kıs)$`,
		models.IntentSystemControl, "target", "modifier", "action")

	// Window and tab controls.
	add(`^(pencereyi|pencere)\s*(kapat|kapa)$`,
		models.IntentSystemControl, "target", "action")
	add(`^(sekmeyi|sekme)\s*(kapat|kapa)$`,
		models.IntentSystemControl, "target", "action")
	add(`^(uygulama|uygulamayı)\s*(kapat|kapa)$`,
		models.IntentSystemControl, "target", "action")

	// Well-known folders.
	add(`^(belgeler|belgelerim|resimler|resimlerim|müzik|müziğim|videolar|videolarım|indirilenler|masaüstü|desktop|downloads)\s*(aç|göster)?$`,
		models.IntentSystemControl, "folder", "action")
	add(`^(dosya gezgini|dosya gezginini|file explorer)\s*(aç|göster)?$`,
		models.IntentSystemControl, "app", "action")

	// Calendar.
	add(`^(takvim|takvimi|calendar)\s*(aç|göster)$`,
		models.IntentSystemControl, "target", "action")

	// Caps lock and friends.
	add(`^(caps lock|capslock)\s*(aç|kapat|değiştir)?$`,
		models.IntentSystemControl, "target", "action")

	// Shell windows.
	add(`^(çalıştır penceresi|çalıştır penceresini)\s*(aç|göster)?$`,
		models.IntentSystemControl, "target", "action")
	add(`^(görev görünümü|görev görünümünü)\s*(aç|göster)?$`,
		models.IntentSystemControl, "target", "action")

	// Page navigation, including sloppy verb endings.
	add(`^(sayfa başına|sayfa sonuna|başa|sona)\s*(git|gel|gi)?$`,
		models.IntentSystemControl, "target", "action")
	add(`^sayfa\s+başına\s*gi.*$`, models.IntentSystemControl, "command")
	add(`^sayfa\s+sonuna\s*gi.*$`, models.IntentSystemControl, "command")

	// Mode switches.
	add(`^(yazı moduna|komut moduna|okuma moduna)\s*(geç|git)$`,
		models.IntentSystemControl, "mode", "action")

	// Application open, excluding the system-control vocabulary.
	add(`^(?!`+systemControlAlternation+`)(.+?)\s*(aç|başlat|çalıştır|getir|göster)$`,
		models.IntentOpenApplication, "app", "action")
	add(`^(aç|başlat|çalıştır)\s+(?!`+systemControlAlternation+`)(.+)$`,
		models.IntentOpenApplication, "action", "app")

	// Application close, same exclusions.
	add(`^(?!`+closeExclusionAlternation+`)(.+?)\s*(kapat|kapa|sonlandır|bitir)$`,
		models.IntentCloseApplication, "app", "action")
	add(`^(kapat|kapa|sonlandır)\s+(?!`+closeExclusionAlternation+`)(.+)$`,
		models.IntentCloseApplication, "action", "app")

	// File operations.
	add(`^(.+?)\s+(dosya|file|belge)\s*(ara|bul|aç)$`,
		models.IntentFileOperation, "filename", "type", "action")
	add(`^(dosya|file|belge)\s+(ara|bul)\s+(.+)$`,
		models.IntentFileOperation, "type", "action", "filename")

	// Email.
	add(`^(mail|email|e-posta|eposta)\s*(oku|göster|listele|kontrol)$`,
		models.IntentEmailOperation, "type", "action")
	add(`^(yeni|taze)\s*(mail|email|e-posta)\s*(yaz|oluştur|gönder)$`,
		models.IntentEmailOperation, "modifier", "type", "action")

	// Folder navigation.
	add(`^(.+?)\s*(klasör|dizin|folder)\s*(aç|git|göster)$`,
		models.IntentFolderNavigation, "foldername", "type", "action")
	add(`^(masaüstü|belgeler|indirilenler|resimler)\s*(aç|git|göster)?$`,
		models.IntentFolderNavigation, "location", "action")

	// Remaining system controls.
	add(`^(ekran|monitör)\s*(kilitle|kapat|kitle)$`,
		models.IntentSystemControl, "target", "action")
	add(`^(bilgisayar|sistem)\s*(kapat|yeniden başlat|restart)$`,
		models.IntentSystemControl, "target", "action")
	add(`^(caps lock|capslock)\s*(aç|kapat|değiştir)$`,
		models.IntentSystemControl, "target", "action")
	add(`^(ekran görüntüsü|screenshot)\s*(al|çek)$`,
		models.IntentSystemControl, "target", "action")

	// Web search.
	add(`^(google|youtube|bing)\s*'?da\s+(.+?)\s*(ara|bul)$`,
		models.IntentWebSearch, "engine", "query", "action")
	add(`^(internet|web)\s*'?de\s+(.+?)\s*(ara|bul)$`,
		models.IntentWebSearch, "type", "query", "action")

	// News and info requests, verb-driven.
	add(`^(haber|haberler|gündem|son dakika)\s*(oku|göster|getir|listele|neler var)$`,
		models.IntentWebInfoRequest, "type", "action")
	add(`^(haber|haberleri|haberlerini)\s+(oku|göster|getir|listele)$`,
		models.IntentWebInfoRequest, "type", "action")
	add(`^(haberlerde|gündemde)\s+(neler var|ne var)$`,
		models.IntentWebInfoRequest, "type", "query")
	add(`^(en son|son|yeni|bugünkü)\s+(haber|haberler|haberleri)\s*(oku|göster|getir|listele)$`,
		models.IntentWebInfoRequest, "modifier", "type", "action")
	add(`^(teknoloji|spor|ekonomi|finans|sağlık|dünya|magazin|siyaset)\s+(haber|haberlerini|haberleri)\s+(oku|göster|getir|listele)$`,
		models.IntentWebInfoRequest, "category", "type", "action")
	add(`^(teknoloji|spor|ekonomi|finans|sağlık|dünya|magazin|siyaset)\s+(haber|haberlerinde)\s+(neler var|ne var)$`,
		models.IntentWebInfoRequest, "category", "type", "query")
	add(`^(twitter|x)\s+(gündem|trend|trendler)\s*(neler|göster|listele)?$`,
		models.IntentWebInfoRequest, "platform", "type", "action")
	add(`^(.+?)\s+(nedir|kimdir|ne demek|hakkında|açıkla)$`,
		models.IntentWebInfoRequest, "query", "action")
	add(`^(vikipedi|wikipedia)\s*'?da\s+(.+?)\s*(ara|bul|oku)$`,
		models.IntentWebInfoRequest, "source", "query", "action")

	// Catch-all news phrasings.
	add(`^(neler oluyor|neler var|gündemde neler var|son haberler neler)$`,
		models.IntentWebInfoRequest, "general_query")
	add(`^(haberler ve gündem|gündem ve haberler|son haberler ve trendler)$`,
		models.IntentWebInfoRequest, "combined_content")
}

// AddCustomPattern compiles and appends a rule. Appended rules evaluate after
// every previously registered rule, in append order. A malformed pattern is
// rejected here so it can never break a later scan.
func (c *Catalog) AddCustomPattern(pattern string, t models.IntentType, entities []string) error {
	expr, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return fmt.Errorf("compile pattern %q: %w", pattern, err)
	}

	c.mu.Lock()
	c.rules = append(c.rules, &rule{
		expr:       expr,
		intentType: t,
		entities:   entities,
	})
	c.mu.Unlock()
	return nil
}

// Match normalizes text through the synonym dictionary and scans the rules in
// registration order. When no rule fires it falls back to keyword-set
// classification.
func (c *Catalog) Match(text string) *models.IntentResult {
	if strings.TrimSpace(text) == "" {
		return models.NewIntentResult(models.IntentUnknown, text, text, 0)
	}

	normalized := c.dict.Normalize(strings.TrimSpace(text))

	c.mu.RLock()
	rules := c.rules
	c.mu.RUnlock()

	for _, r := range rules {
		m, err := r.expr.FindStringMatch(normalized)
		if err != nil {
			// A rule that fails at scan time is skipped, never fatal.
			c.logger.Warn("pattern evaluation failed",
				zap.String("pattern", r.expr.String()), zap.Error(err))
			continue
		}
		if m == nil {
			continue
		}

		result := models.NewIntentResult(r.intentType, text, normalized, confidence(m.Length, normalized))
		bindEntities(result, m, r.entities)
		return result
	}

	return c.keywordFallback(text, normalized)
}

// confidence rewards full-phrase matches and scales partial matches with
// coverage: 0.95 for a full-span match, otherwise min(0.9, 0.5+0.4*coverage).
func confidence(matchedRunes int, normalized string) float64 {
	total := utf8.RuneCountInString(normalized)
	if total == 0 {
		return 0
	}
	if matchedRunes == total {
		return 0.95
	}
	coverage := float64(matchedRunes) / float64(total)
	conf := 0.5 + coverage*0.4
	if conf > 0.9 {
		conf = 0.9
	}
	return conf
}

// bindEntities maps capture groups 1..N positionally onto the declared entity
// names; unmatched optional groups are omitted.
func bindEntities(result *models.IntentResult, m *regexp2.Match, entities []string) {
	groups := m.Groups()
	for i := 1; i < len(groups) && i <= len(entities); i++ {
		g := groups[i]
		if len(g.Captures) == 0 {
			continue
		}
		value := strings.TrimSpace(g.String())
		if value != "" {
			result.Entities[entities[i-1]] = value
		}
	}
}

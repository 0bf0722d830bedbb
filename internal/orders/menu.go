package orders

import (
	"strings"

	"github.com/matthieukhl/drinkstand/internal/models"
)

// Pricer derives an order's price from its menu item.
type Pricer struct {
	Standard int
	Premium  int
	premium  map[string]struct{}
}

func NewPricer(standard, premium int, premiumItems []string) Pricer {
	p := Pricer{Standard: standard, Premium: premium, premium: make(map[string]struct{}, len(premiumItems))}
	for _, item := range premiumItems {
		p.premium[strings.TrimSpace(item)] = struct{}{}
	}
	return p
}

func (p Pricer) Price(menu string) int {
	if _, ok := p.premium[strings.TrimSpace(menu)]; ok {
		return p.Premium
	}
	return p.Standard
}

// Menu lists the drinks on the board, priced by p.
func (p Pricer) Menu() []models.MenuItem {
	items := make([]models.MenuItem, 0, len(iceMenu)+len(hotMenu)+len(p.premium))
	for _, name := range iceMenu {
		items = append(items, models.MenuItem{Name: name, DrinkType: models.DrinkIce, Price: p.Price(name)})
	}
	for _, name := range hotMenu {
		items = append(items, models.MenuItem{Name: name, DrinkType: models.DrinkHot, Price: p.Price(name)})
	}
	return items
}

var iceMenu = []string{
	"コーヒー", "オーレ", "紅茶", "はちみつ紅茶", "抹茶オーレ", "ココア", "ハニーレモン",
	"はちみつゆず", "カルピス", "オレンジ", "マンゴー", "ミックス", "マンゴーラッシー",
	"いちごオーレ", "美酢ざくろ", "美酢アセロラ", "美酢パイン", "美酢レモン", "美酢キウイ",
	"カルピス炭酸割", "ハニーレモン炭酸割",
}

var hotMenu = []string{
	"コーヒー", "オーレ", "紅茶", "はちみつ紅茶", "抹茶オーレ", "ココア", "ハニーレモン",
	"はちみつゆず", "こぶ茶", "梅こぶ茶", "カルピス", "コーンスープ", "クリームオニオン",
	"ベーコンポテト", "きのこ", "4種のチーズ", "プレミアム",
}

package translator

// defaultEntries is a partial mapping. Not every Japanese name here exists in
// the live category tree; unmatched ones are dropped by the matcher.
// "home & living" is defined twice in the upstream table and is kept that way.
var defaultEntries = []Entry{
	{"fashion", "ファッション/小物"},
	{"electronics", "家電"},
	{"gadgets", "ガジェット"},
	{"home & living", "家具・インテリア"},
	{"beauty & health", "美容・健康"},
	{"electronics & gadgets", "家電・スマホ・カメラ"},
	{"home & living", "インテリア・住まい・小物"},
	{"hobbies & collectibles", "おもちゃ・ホビー・グッズ"},
	{"cosmetics & beauty", "コスメ・香水・美容"},
	{"sports & outdoors", "スポーツ・レジャー"},
	{"handmade", "ハンドメイド"},
	{"books, music & games", "本・音楽・ゲーム"},
	{"food, sweets & drinks", "食品/飲料/酒"},
	{"baby & kids", "キッズ/ベビー"},
	{"kids", "キッズ/ベビー"},
	{"baby", "キッズ/ベビー"},
	{"tickets & coupons", "チケット"},
	{"other", "その他"},
	{"manga", "漫画"},
	{"anime", "アニメグッズ"},
	{"toys", "おもちゃ"},
	{"games", "ゲーム"},
}

// Default returns the built-in lexicon.
func Default() *Lexicon {
	return New(defaultEntries)
}

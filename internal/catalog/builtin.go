package catalog

var builtinCategories = []Category{
	{
		Key:   "beer_bottle",
		Title: "Пиво (бутылочное/баночное)",
		Items: []string{
			"Миллер ЖБ",
			"Миллер Стекло",
			"Миллер Лайм",
			"Крушовица",
			"Крушовица Светлое",
			"Крушовица Темное",
			"Крушовица БА",
			"Особая варка речка",
			"Старопрамен",
			"J Hardy лимон",
			"J Hardy гранат",
			"J Hardy чили маракуйа",
			"Волки IPA",
			"Волки Session IPA",
			"Волки APA",
			"Волки Светлячок",
			"Волки Шоколадный стаут",
			"Волки Вишневый Эль",
			"Волки Медовуха Манго",
			"Волки Васька",
			"Волки WIT",
		},
	},
	{
		Key:   "beer_draft",
		Title: "Пиво разливное",
		Items: []string{
			"Эдельвйес н/ф",
			"Речка Вишня",
			"Речка Белое особое",
			"Крушовица Светлое",
			"Крушовица Темное",
			"IPA Эль",
			"Квас",
			"Сидорова коза",
		},
	},
	{
		Key:   "strong",
		Title: "Крепкое",
		Items: []string{
			"Finlandia blackurrant",
			"Bacardi Spiced",
			"Bacardi carta blanca",
			"Bacardi carta negra",
			"Jim Beam black cherry",
			"Jim Beam kentucky straight bourbon",
			"Tullamore D.E.W.",
			"Glenfiddich 12",
			"Bombay sapphire Gin",
			"Jagermeister",
			"Cointreau",
			"Vana Tallin chocolate liqueur",
			"Espolon blanco Tequila",
			"Torres reserva imperial",
			"Урарту",
			"Black monkey",
			"White cross",
			"Maverick gin",
			"Сябры",
		},
	},
	{
		Key:   "wine",
		Title: "Вина и аперитивы",
		Items: []string{
			"Campari milano",
			"Verouth cinzano bianco",
			"Aperol aperitivo",
			"Casilleri del diablo chardonnay reserva",
			"Rose blend portugal",
			"Castelli romeo and guiletta prosecco",
			"Mondoro brut",
			"Deviils rock riesling",
			"Coni sur bicicleta reserva gewurztraminer",
			"Casillero del diablo carmenere reserva красное",
		},
	},
	{
		Key:   "soft",
		Title: "б/а",
		Items: []string{
			"Святой источник н/г",
			"Святой источник газ",
			"Borjomi ПЭТ 0,5",
			"Borjomi Стекло 0,33",
			"Borjomi ЖБ 0,33",
			"Borjomi цитрус",
			"Borjomi мандарин",
			"Borjomi груша",
			"Gorilla Classic",
			"Pepsi",
			"7up",
			"Mirinda",
			"Mountew dew",
			"Сок Ананас",
			"Сок Вишня",
			"Сок Апельсин",
			"Сок Яблоко",
			"Bonaqua",
			"Schweppes",
		},
	},
	{
		Key:   "syrup",
		Title: "Сиропы",
		Items: []string{
			"Richeza Lemon and concentrate",
			"Richeza peach",
			"Richeza pear",
			"Richeza basil and lemon",
			"Richeza kiwi and feijoa",
			"Richeza yuzu",
			"Richeza blackcurrant and mint",
			"Richeza mango and passion fruit",
		},
	},
}

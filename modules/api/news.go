package api

import (
	"math/rand/v2"

	"github.com/gofiber/fiber/v2"
)

// newsSampleSize is how many items one news request returns.
const newsSampleSize = 7

var newsItems = []NewsItem{
	{ID: "1", Img: "https://photo.roscongress.org/api/structure/photos/374f99c7-72e5-4e38-a8d8-54b44bd805cb/preview", Title: "Форум по экономическим вопросам", Time: "25 минут назад", Topic: "Экономика", URL: "https://photo.roscongress.org/api/structure/photos/374f99c7-72e5-4e38-a8d8-54b44bd805cb/preview"},
	{ID: "2", Img: "https://mff.minfin.ru/upload/iblock/b3b/6boxt0a1m9zy4vm1gtjaqnfmet1y0pqd/IMG_4832.JPG", Title: "Обсуждение бюджета на 2025 год", Time: "30 минут назад", Topic: "Бюджет", URL: "https://mff.minfin.ru/upload/iblock/b3b/6boxt0a1m9zy4vm1gtjaqnfmet1y0pqd/IMG_4832.JPG"},
	{ID: "3", Img: "https://mff.minfin.ru/upload/iblock/f79/pmxdi7i9hz8yv9ws8j4dku04piadp9vf/1L4A0467.JPG", Title: "Встреча с инвесторами", Time: "1 час назад", Topic: "Инвестиции", URL: "https://mff.minfin.ru/upload/iblock/f79/pmxdi7i9hz8yv9ws8j4dku04piadp9vf/1L4A0467.JPG"},
	{ID: "4", Img: "https://mff.minfin.ru/upload/iblock/1e8/h2sabpmlh7ga4ehk13xc2c11jjwv9nj6/IMG_5307.jpg", Title: "Презентация новых финансовых инструментов", Time: "2 часа назад", Topic: "Финансовые инструменты", URL: "https://mff.minfin.ru/upload/iblock/1e8/h2sabpmlh7ga4ehk13xc2c11jjwv9nj6/IMG_5307.jpg"},
	{ID: "5", Img: "https://photo.roscongress.org/api/structure/photos/90634b5c-ce0e-4332-805f-1a3a866a293c/preview", Title: "Сессия по цифровым технологиям в экономике", Time: "3 часа назад", Topic: "Цифровизация", URL: "https://photo.roscongress.org/api/structure/photos/90634b5c-ce0e-4332-805f-1a3a866a293c/preview"},
	{ID: "6", Img: "https://img.freepik.com/premium-photo/creative-growing-arrows-chart-blurry-city-texture-return-investment-finance-market-growth-concept-double-exposure_670147-17237.jpg", Title: "Рост инвестиций в финансовом секторе", Time: "4 часа назад", Topic: "Инвестиции", URL: "https://img.freepik.com/premium-photo/creative-growing-arrows-chart-blurry-city-texture-return-investment-finance-market-growth-concept-double-exposure_670147-17237.jpg"},
	{ID: "7", Img: "https://img.freepik.com/free-vector/financial-incline-growth-upward-arrow-trend-background-design_1017-27107.jpg", Title: "Тренды роста экономики в 2024 году", Time: "5 часов назад", Topic: "Экономика", URL: "https://img.freepik.com/free-vector/financial-incline-growth-upward-arrow-trend-background-design_1017-27107.jpg"},
	{ID: "8", Img: "https://img.freepik.com/premium-photo/pen-paper-with-price-quotes-charts-dynamics-their-change-coins_494741-42135.jpg?w=2000", Title: "Анализ рыночных котировок и динамики цен", Time: "6 часов назад", Topic: "Финансовые рынки", URL: "https://img.freepik.com/premium-photo/pen-paper-with-price-quotes-charts-dynamics-their-change-coins_494741-42135.jpg?w=2000"},
	{ID: "9", Img: "https://img.freepik.com/premium-photo/technology-finance-concept_700248-33215.jpg?w=2000", Title: "Технологии в финансах и их влияние на рынок", Time: "7 часов назад", Topic: "Технологии и финансы", URL: "https://img.freepik.com/premium-photo/technology-finance-concept_700248-33215.jpg?w=2000"},
	{ID: "10", Img: "https://img.freepik.com/premium-photo/young-businessman-mobile-phone_700248-32742.jpg?w=2000", Title: "Молодые предприниматели и новые идеи в бизнесе", Time: "8 часов назад", Topic: "Предпринимательство", URL: "https://img.freepik.com/premium-photo/young-businessman-mobile-phone_700248-32742.jpg?w=2000"},
}

// News returns a random sample of the news feed without repeats.
func (h *Handlers) News(c *fiber.Ctx) error {
	return c.JSON(sampleNews(newsItems, newsSampleSize))
}

func sampleNews(items []NewsItem, n int) []NewsItem {
	n = min(n, len(items))
	out := make([]NewsItem, n)
	for i, j := range rand.Perm(len(items))[:n] {
		out[i] = items[j]
	}
	return out
}

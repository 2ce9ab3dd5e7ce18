package conversation

const (
	textGreeting   = "Привет! Я бот, который ведёт учёт продукции на складе. Давай знакомиться:"
	textRoleSelect = "Выбери роль:"

	textBarmanIntro    = "Ну как прошла смена? Выбери категорию и затем напиток. После этого введи количество потраченных бутылок:"
	textBarmanCategory = "Выбери категорию:"
	textBarmanMore     = "Добавь ещё! Выбери категорию:"
	textBarmanItems    = "Категория: %s\nВыбери напиток:"
	textBarmanQuantity = "Вы выбрали: <b>%s</b>\n\nВведи <b>количество потраченных бутылок</b> числом (например, 5)."
	textBarmanBadQty   = "Введите количество ЧИСЛОМ. Например: 5"
	textBarmanNoItem   = "Сначала выберите категорию и напиток."
	textBarmanRecorded = "Записал расход: %s — %s."
	textBarmanDone     = "Класс, спасибо! Доброй ночи! 🌙"

	textAdminMenu = "Здравствуйте, начальник! Что делаем?"

	textStatsMenu   = "Выбери период:"
	textStatsReport = "Статистика расхода за %d дн.:\n\n%s"
	textStatsNoData = "Пока нет данных."
	textStatsEmpty  = "За выбранный период расхода нет."

	textDodepMenu       = "Додеп:"
	textShortfallPoor   = "Нищий закуп (докупить):\n"
	textShortfallLuxe   = "Люксовый закуп (докупить):\n"
	textNoShortfallPoor = "По нищему закупу — ничего не требуется докупать."
	textNoShortfallLuxe = "По люксовому закупу — ничего не требуется докупать."

	textThresholdMode     = "Что настраиваем?"
	textThresholdCategory = "Настройка порога: %s закуп.\nВыбери категорию:"
	textThresholdItems    = "Категория: %s\nВыбери продукт:"
	textThresholdValue    = "Укажи числом порог для «%s» (%s закуп):"
	textThresholdBad      = "Введите порог числом. Например: 10"
	textThresholdNoItem   = "Сначала выбери продукт."
	textThresholdSaved    = "Готово. Порог (%s) для «%s» = %s."

	textReceiveMenu     = "Меню приёма товара:"
	textAutoReceived    = "Заявка принята в учёт. Не забудьте ввести сроки годности при необходимости."
	textNothingToOrder  = "Нет актуальной заявки (по выбранному порогу закуп не требуется)."
	textReceiveCategory = "Выберите категорию товара для приёмки:"
	textReceiveItems    = "Категория: %s\nВыберите продукт:"
	textReceiveQuantity = "Вы выбрали приём: <b>%s</b>\n\nВведите <b>количество поступивших бутылок</b> числом:"
	textReceiveBadQty   = "Введите количество ЧИСЛОМ. Например: 8"
	textReceiveNoItem   = "Сначала выберите продукт из меню."
	textReceived        = "Принял на склад: %s — %s."

	textNewProductName     = "Введите НОВЫЙ продукт (название):"
	textNewProductNoName   = "Введите название продукта (текстом)."
	textNewProductQuantity = "Новый продукт: <b>%s</b>\nВведите количество (числом):"
	textNewProductBadQty   = "Введите количество ЧИСЛОМ. Например: 6"
	textNewProductAdded    = "Добавлен новый продукт: %s — %s."

	textExpiryItems   = "Выберите продукт для ввода срока годности:"
	textExpiryPrompt  = "Продукт: <b>%s</b>\nВведи срок годности формата ДД.ММ.ГГГГ и количество через запятую.\nНапример: 25.12.2025, 6"
	textExpiryBadFmt  = "Неверный формат. Нужен: ДД.ММ.ГГГГ, количество\nНапример: 25.12.2025, 6"
	textExpiryBadDate = "Дата некорректна. Повторите ввод."
	textExpiryNoItem  = "Сначала выберите продукт."
	textExpirySaved   = "Срок годности записан: %s — до %s, %s шт."

	textShareCaption = "Текущая таблица учёта (Excel)."
	textShareFailed  = "Не удалось отправить файл, попробуйте позже."
	textReadFailed   = "Не удалось получить данные, попробуйте позже."
	textWriteFailed  = "Не удалось сохранить данные, попробуйте ещё раз."

	shareFileName = "data.xlsx"
	dateFormat    = "02.01.2006"
)

const (
	labelBack = "⬅️ Назад"
	labelHome = "🏠 В начало"
	labelPrev = "◀️"
	labelNext = "▶️"
)

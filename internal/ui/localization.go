package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyFile              = "file"
	KeySettings          = "settings"
	KeyLanguage          = "language"
	KeyOpenFile          = "open_file"
	KeySaveComment       = "save_comment"
	KeyGenerate          = "generate"
	KeyClearAll          = "clear_all"
	KeyInsert            = "insert"
	KeyCancelJob         = "cancel_job"
	KeyEditorTab         = "editor_tab"
	KeyPreviewTab        = "preview_tab"
	KeyCodePlaceholder   = "code_placeholder"
	KeyCommentsTitle     = "comments_title"
	KeySourceLanguage    = "source_language"
	KeyWarning           = "warning"
	KeyEnterCode         = "enter_code"
	KeyNoBlocks          = "no_blocks"
	KeyParseError        = "parse_error"
	KeyWaitingServer     = "waiting_server"
	KeyGenerating        = "generating"
	KeyGenerated         = "generated"
	KeyGenerateError     = "generate_error"
	KeyCancelled         = "cancelled"
	KeyReady             = "ready"
	KeyNoComment         = "no_comment"
	KeySaved             = "saved"
	KeySaveError         = "save_error"
	KeyOpenError         = "open_error"
	KeyLoaded            = "loaded"
	KeyNothingToInsert   = "nothing_to_insert"
	KeyInsertConfirm     = "insert_confirm"
	KeyInserted          = "inserted"
	KeyQuit              = "quit"
	KeyQuitConfirm       = "quit_confirm"
	KeyServerURL         = "server_url"
	KeyReadyTimeout      = "ready_timeout"
	KeyDefaultSourceLang = "default_source_lang"
	KeySaveDirectory     = "save_directory"
	KeyAutoReveal        = "auto_reveal"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySettingsSaved     = "settings_saved"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "CodeSage",
		KeyFile:              "File",
		KeySettings:          "Settings",
		KeyLanguage:          "Language",
		KeyOpenFile:          "Open File",
		KeySaveComment:       "Save Comment",
		KeyGenerate:          "Generate Comment",
		KeyClearAll:          "Clear All",
		KeyInsert:            "Insert Into Source",
		KeyCancelJob:         "Cancel",
		KeyEditorTab:         "Editor",
		KeyPreviewTab:        "Preview",
		KeyCodePlaceholder:   "Paste or open source code here",
		KeyCommentsTitle:     "Generated Comments",
		KeySourceLanguage:    "Source Language",
		KeyWarning:           "Warning",
		KeyEnterCode:         "Please enter some code first.",
		KeyNoBlocks:          "No functions or classes found to comment.",
		KeyParseError:        "Parse Error",
		KeyWaitingServer:     "Waiting for local server...",
		KeyGenerating:        "Generating comments...",
		KeyGenerated:         "All comments generated successfully!",
		KeyGenerateError:     "Error generating comment",
		KeyCancelled:         "Generation cancelled",
		KeyReady:             "Ready",
		KeyNoComment:         "No comment to save.",
		KeySaved:             "Comments saved to",
		KeySaveError:         "Error saving file",
		KeyOpenError:         "Error opening file",
		KeyLoaded:            "Loaded",
		KeyNothingToInsert:   "Generate comments before inserting them.",
		KeyInsertConfirm:     "Write the comments into %s?",
		KeyInserted:          "Comments inserted",
		KeyQuit:              "Quit",
		KeyQuitConfirm:       "Comment generation is still running. Quit anyway?",
		KeyServerURL:         "Server URL",
		KeyReadyTimeout:      "Server Ready Timeout (seconds)",
		KeyDefaultSourceLang: "Default Source Language",
		KeySaveDirectory:     "Save Directory",
		KeyAutoReveal:        "Reveal saved file",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySettingsSaved:     "Settings saved successfully!",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "CodeSage",
		KeyFile:              "Файл",
		KeySettings:          "Настройки",
		KeyLanguage:          "Язык",
		KeyOpenFile:          "Открыть файл",
		KeySaveComment:       "Сохранить комментарии",
		KeyGenerate:          "Создать комментарии",
		KeyClearAll:          "Очистить всё",
		KeyInsert:            "Вставить в код",
		KeyCancelJob:         "Отмена",
		KeyEditorTab:         "Редактор",
		KeyPreviewTab:        "Просмотр",
		KeyCodePlaceholder:   "Вставьте или откройте исходный код",
		KeyCommentsTitle:     "Сгенерированные комментарии",
		KeySourceLanguage:    "Язык кода",
		KeyWarning:           "Предупреждение",
		KeyEnterCode:         "Сначала введите код.",
		KeyNoBlocks:          "Не найдено функций или классов для комментирования.",
		KeyParseError:        "Ошибка разбора",
		KeyWaitingServer:     "Ожидание локального сервера...",
		KeyGenerating:        "Создание комментариев...",
		KeyGenerated:         "Все комментарии успешно созданы!",
		KeyGenerateError:     "Ошибка создания комментария",
		KeyCancelled:         "Генерация отменена",
		KeyReady:             "Готово",
		KeyNoComment:         "Нет комментариев для сохранения.",
		KeySaved:             "Комментарии сохранены в",
		KeySaveError:         "Ошибка сохранения файла",
		KeyOpenError:         "Ошибка открытия файла",
		KeyLoaded:            "Загружено",
		KeyNothingToInsert:   "Сначала создайте комментарии.",
		KeyInsertConfirm:     "Записать комментарии в %s?",
		KeyInserted:          "Комментарии вставлены",
		KeyQuit:              "Выход",
		KeyQuitConfirm:       "Генерация комментариев ещё идёт. Всё равно выйти?",
		KeyServerURL:         "URL сервера",
		KeyReadyTimeout:      "Ожидание сервера (секунды)",
		KeyDefaultSourceLang: "Язык кода по умолчанию",
		KeySaveDirectory:     "Папка сохранения",
		KeyAutoReveal:        "Показать сохранённый файл",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeySettingsSaved:     "Настройки успешно сохранены!",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "CodeSage",
		KeyFile:              "Arquivo",
		KeySettings:          "Configurações",
		KeyLanguage:          "Idioma",
		KeyOpenFile:          "Abrir Arquivo",
		KeySaveComment:       "Salvar Comentário",
		KeyGenerate:          "Gerar Comentário",
		KeyClearAll:          "Limpar Tudo",
		KeyInsert:            "Inserir no Código",
		KeyCancelJob:         "Cancelar",
		KeyEditorTab:         "Editor",
		KeyPreviewTab:        "Visualizar",
		KeyCodePlaceholder:   "Cole ou abra o código-fonte aqui",
		KeyCommentsTitle:     "Comentários Gerados",
		KeySourceLanguage:    "Linguagem do Código",
		KeyWarning:           "Aviso",
		KeyEnterCode:         "Por favor, insira algum código primeiro.",
		KeyNoBlocks:          "Nenhuma função ou classe encontrada para comentar.",
		KeyParseError:        "Erro de Análise",
		KeyWaitingServer:     "Aguardando servidor local...",
		KeyGenerating:        "Gerando comentários...",
		KeyGenerated:         "Todos os comentários gerados com sucesso!",
		KeyGenerateError:     "Erro ao gerar comentário",
		KeyCancelled:         "Geração cancelada",
		KeyReady:             "Pronto",
		KeyNoComment:         "Nenhum comentário para salvar.",
		KeySaved:             "Comentários salvos em",
		KeySaveError:         "Erro ao salvar arquivo",
		KeyOpenError:         "Erro ao abrir arquivo",
		KeyLoaded:            "Carregado",
		KeyNothingToInsert:   "Gere comentários antes de inseri-los.",
		KeyInsertConfirm:     "Gravar os comentários em %s?",
		KeyInserted:          "Comentários inseridos",
		KeyQuit:              "Sair",
		KeyQuitConfirm:       "A geração de comentários ainda está em andamento. Sair mesmo assim?",
		KeyServerURL:         "URL do Servidor",
		KeyReadyTimeout:      "Tempo de Espera do Servidor (segundos)",
		KeyDefaultSourceLang: "Linguagem Padrão do Código",
		KeySaveDirectory:     "Diretório de Salvamento",
		KeyAutoReveal:        "Mostrar arquivo salvo",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
	}
}

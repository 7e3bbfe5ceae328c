package template

import (
	"fmt"
	"strings"

	"github.com/Steffany-Martins/botCheckin/internal/model"
	"github.com/Steffany-Martins/botCheckin/internal/util"
)

// SearchUserStart opens the user search flow.
func SearchUserStart() string {
	return "🔍 *Buscar Usuário*\n\n" +
		"Digite o *nome* (ou parte do nome) da pessoa que você procura:\n\n" +
		"💡 _Exemplo: João_ ou _Maria_" +
		NavigationFooter()
}

// SearchUserResults lists the matches as a numbered selection menu.
func SearchUserResults(results []model.User, searchTerm string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 *Resultados para \"%s\":*\n\n", searchTerm)
	for i, u := range results {
		categories := ""
		if u.Categories != "" {
			categories = " | " + u.Categories
		}
		fmt.Fprintf(&b, "%d️⃣ %s *%s*\n", i+1, roleEmoji(u.Role), u.Name)
		fmt.Fprintf(&b, "   📱 %s%s\n", u.Phone, categories)
		if u.ExpectedWeeklyHours > 0 {
			fmt.Fprintf(&b, "   ⏰ %sh/semana\n", formatHours(u.ExpectedWeeklyHours))
		}
		b.WriteString("\n")
	}
	b.WriteString("💬 *Responda apenas com o número*\n")
	if len(results) == 1 {
		b.WriteString("📝 Digite: 1")
	} else {
		fmt.Fprintf(&b, "📝 Digite: 1 a %d", len(results))
	}
	b.WriteString(NavigationFooter())
	return b.String()
}

// SearchUserSelected shows the full card of the chosen user.
func SearchUserSelected(u *model.User) string {
	categories := ""
	if u.Categories != "" {
		categories = "\n🎯 Categorias: " + u.Categories
	}
	hours := ""
	if u.ExpectedWeeklyHours > 0 {
		hours = fmt.Sprintf("\n⏰ Horas esperadas: %sh/semana", formatHours(u.ExpectedWeeklyHours))
	}
	return fmt.Sprintf("%s *%s*\n\n📋 %s\n📱 %s%s%s",
		roleEmoji(u.Role), u.Name, u.Role.Label(), u.Phone, categories, hours)
}

// SearchUserNoResults reports an empty search, keeping the flow open.
func SearchUserNoResults(searchTerm string) string {
	return fmt.Sprintf("🔍 *Nenhum resultado*\n\n"+
		"Não encontrei ninguém com \"%s\".\n\n"+
		"Tente novamente com outro nome.", searchTerm) +
		NavigationFooter()
}

// SetHoursStart opens the weekly hours flow.
func SetHoursStart() string {
	return "⏰ *Definir Horas Semanais*\n\n" +
		"Primeiro, vamos encontrar o funcionário.\n\n" +
		"Digite o *nome* da pessoa:\n\n" +
		"💡 _Exemplo: João_" +
		NavigationFooter()
}

// SetHoursAskHours asks how many weekly hours the selected user should have.
func SetHoursAskHours(userName string) string {
	return fmt.Sprintf("⏰ *Definir Horas para %s*\n\n"+
		"Quantas horas por semana são esperadas?\n\n"+
		"💡 _Exemplos:_\n"+
		"• 40 (tempo integral)\n"+
		"• 20 (meio período)\n"+
		"• 44 (com horas extras)\n\n"+
		"Digite o número de horas:", userName) +
		NavigationFooter()
}

// SetHoursSuccess confirms the stored value.
func SetHoursSuccess(userName string, hours float64) string {
	return fmt.Sprintf("✅ *Horas definidas!*\n\n"+
		"%s agora tem *%s horas/semana* esperadas.\n\n"+
		"⏰ O sistema poderá calcular cumprimento de horas.", userName, formatHours(hours))
}

// EditCategoryStart opens the category editing flow.
func EditCategoryStart() string {
	return "🎯 *Editar Categorias*\n\n" +
		"Primeiro, vamos encontrar o usuário.\n\n" +
		"Digite o *nome* da pessoa:\n\n" +
		"💡 _Exemplo: Maria_" +
		NavigationFooter()
}

// EditCategoryAskCategories shows the current categories and the options.
func EditCategoryAskCategories(userName string, current []string) string {
	currentText := ""
	if len(current) > 0 {
		currentText = "\n📋 Categorias atuais: " + strings.Join(current, ", ")
	}
	return fmt.Sprintf("🎯 *Editar Categorias de %s*%s\n\n"+
		"Escolha as novas categorias:\n\n"+
		"1️⃣ Bar 🍺\n"+
		"2️⃣ Restaurante 🍽️\n"+
		"3️⃣ Padaria 🥖\n"+
		"4️⃣ Café ☕\n"+
		"5️⃣ Lanchonete 🍔\n"+
		"6️⃣ Outro\n\n"+
		"💡 _Pode escolher várias:_ \"1,2\" ou \"1 3 5\"", userName, currentText) +
		NavigationFooter()
}

// EditCategorySuccess confirms the new category set.
func EditCategorySuccess(userName string, categories []string) string {
	return fmt.Sprintf("✅ *Categorias atualizadas!*\n\n"+
		"%s agora está em:\n%s", userName, formatCategories(categories))
}

// EditHoursStart opens the timestamp editing flow.
func EditHoursStart() string {
	return "✏️ *Editar Horários*\n\n" +
		"Primeiro, vamos encontrar o funcionário.\n\n" +
		"Digite o *nome* da pessoa:\n\n" +
		"💡 _Exemplo: João_" +
		NavigationFooter()
}

// EditHoursShowCheckins lists the user's recent punches for selection.
func EditHoursShowCheckins(userName string, checkins []model.CheckinRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Horários de %s*\n\n", userName)
	for i, c := range checkins {
		fmt.Fprintf(&b, "%d️⃣ %s %s - %s\n",
			i+1, typeIcon(c.Type), c.Type.Label(), util.FormatTime(c.Timestamp, true))
		if c.Edited() {
			b.WriteString("   ✏️ _Editado_\n")
		}
	}
	fmt.Fprintf(&b, "\n💡 _Selecione o número (1-%d) para editar_", len(checkins))
	b.WriteString(NavigationFooter())
	return b.String()
}

// EditHoursAskNewTime asks for the replacement HH:MM.
func EditHoursAskNewTime(userName string, c *model.CheckinRecord) string {
	return fmt.Sprintf("✏️ *Editar %s de %s*\n\n"+
		"⏰ Horário atual: *%s*\n\n"+
		"Envie o novo horário no formato HH:MM\n\n"+
		"💡 _Exemplos:_\n"+
		"• 08:00\n"+
		"• 14:30\n"+
		"• 18:15", c.Type.Label(), userName, util.FormatTime(c.Timestamp, false)) +
		NavigationFooter()
}

// EditHoursSuccess confirms the edit with before/after and the editor's name.
func EditHoursSuccess(userName string, typ model.CheckinType, oldTime, newTime, editorName string) string {
	return fmt.Sprintf("✅ *Horário atualizado!*\n\n"+
		"👤 %s - %s\n\n"+
		"Antes: %s\n"+
		"Depois: %s\n\n"+
		"✏️ Alterado por: %s", userName, typ.Label(), oldTime, newTime, editorName)
}

// EditHoursNoRecords ends the flow when the selected user has no punches.
func EditHoursNoRecords(userName string) string {
	return fmt.Sprintf("📊 *Horários de %s*\n\n"+
		"_Nenhum registro encontrado para editar._\n\n"+
		"9️⃣ Menu", userName)
}

// ConversationCancelled confirms a flow abort.
func ConversationCancelled() string {
	return "❌ *Operação cancelada*\n\nVoltando ao menu principal."
}

// ConversationExpired is sent lazily when an idle flow is touched.
func ConversationExpired() string {
	return "⏱️ *Conversa expirada*\n\n" +
		"A operação foi cancelada por inatividade.\n\n" +
		"9️⃣ Menu"
}

// InvalidHours rejects a non-numeric or out-of-range weekly hours value.
func InvalidHours() string {
	return "❌ *Valor inválido*\n\n" +
		"Digite um número de horas entre 0 e 168.\n\n" +
		"💡 _Exemplos: 40 ou 38,5_"
}

// InvalidTimeFormat rejects an HH:MM answer that does not parse.
func InvalidTimeFormat() string {
	return "❌ *Horário inválido*\n\n" +
		"Envie o horário no formato HH:MM.\n\n" +
		"💡 _Exemplos: 08:00 ou 14:30_"
}

// InvalidSelection rejects a numbered-list answer outside the range.
func InvalidSelection(max int) string {
	return fmt.Sprintf("❌ *Opção inválida*\n\n"+
		"Responda com um número de 1 a %d.", max)
}

func formatHours(h float64) string {
	s := fmt.Sprintf("%g", h)
	return strings.ReplaceAll(s, ".", ",")
}

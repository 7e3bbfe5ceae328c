// Package template renders every WhatsApp message the bot sends. All texts
// are Portuguese and formatted with WhatsApp markdown (*bold*, _italic_).
package template

import (
	"fmt"
	"strings"

	"github.com/Steffany-Martins/botCheckin/internal/model"
)

func roleEmoji(role model.Role) string {
	switch role {
	case model.RoleManager:
		return "💫"
	case model.RoleSupervisor:
		return "🔎"
	}
	return "👤"
}

// MenuForRole renders the main menu for an authenticated user.
func MenuForRole(role model.Role, name string) string {
	switch role {
	case model.RoleManager:
		return managerMenu(name)
	case model.RoleSupervisor:
		return supervisorMenu(name)
	}
	return staffMenu(name)
}

func staffMenu(name string) string {
	return fmt.Sprintf("👤 *Ola,* %s!\n\n"+
		"📋 *Selecione uma opção:*\n\n"+
		"1️⃣ Check-in\n"+
		"2️⃣ Iniciar Pausa\n"+
		"3️⃣ Voltar da Pausa\n"+
		"4️⃣ Fechar Expediente\n"+
		"5️⃣ Ver Meu Histórico\n\n"+
		"0️⃣ Sair\n"+
		"9️⃣ Atualizar menu", name)
}

func managerMenu(name string) string {
	return fmt.Sprintf("👔 *Ola, Gerente* %s!\n\n"+
		"📋 *Painel de Gestão:*\n\n"+
		"*Check-in Pessoal:*\n"+
		"1️⃣ Check-in\n"+
		"2️⃣ Iniciar Pausa\n"+
		"3️⃣ Voltar da Pausa\n"+
		"4️⃣ Fechar Expediente\n"+
		"5️⃣ Ver Meu Histórico\n\n"+
		"*Gestão de Equipe:*\n"+
		"6️⃣ Ver Todos os Horários\n"+
		"7️⃣ Buscar Usuário\n"+
		"8️⃣ Definir Horas Semanais\n"+
		"🔟 Editar Categorias (10)\n"+
		"1️⃣1️⃣ Editar Horários (11)\n\n"+
		"0️⃣ Sair\n"+
		"9️⃣ Atualizar menu", name)
}

func supervisorMenu(name string) string {
	return fmt.Sprintf("👨‍💼 *Ola, Supervisor* %s!\n\n"+
		"📋 *Gestão de Equipe:*\n\n"+
		"*Check-in Pessoal:*\n"+
		"1️⃣ Check-in\n"+
		"2️⃣ Iniciar Pausa\n"+
		"3️⃣ Voltar da Pausa\n"+
		"4️⃣ Fechar Expediente\n\n"+
		"*Equipe:*\n"+
		"5️⃣ Ver Equipe Ativa\n"+
		"6️⃣ Histórico da Equipe\n"+
		"7️⃣ Editar Horários\n"+
		"8️⃣ Ver Meu Histórico\n\n"+
		"0️⃣ Sair\n"+
		"9️⃣ Atualizar menu", name)
}

// Welcome greets a user right after registration completes.
func Welcome(name string, role model.Role, categories []string) string {
	categoryText := ""
	if len(categories) > 0 {
		categoryText = "\n🎯 Categoria(s): " + formatCategories(categories)
	}
	return fmt.Sprintf("%s *Bem-vindo(a), %s!*\n\n"+
		"✅ Seu cadastro foi realizado com sucesso como *%s*!%s\n\n"+
		"Você já está logado e pronto para começar! 🎉",
		roleEmoji(role), name, role.Label(), categoryText)
}

// LoginSuccess confirms a returning login.
func LoginSuccess(name string) string {
	return fmt.Sprintf("👋 Ola novamente, %s!\n\n✅ Login realizado com sucesso!", name)
}

// Logout confirms session termination and reminds how to come back.
func Logout() string {
	return "👋 *Até logo!*\n\n" +
		"Você foi desconectado com sucesso.\n\n" +
		"💡 Para fazer login novamente:\n" +
		"• Staff: envie *MENU*\n" +
		"• Admin: envie *LOGIN SENHA*"
}

// NavigationFooter is appended to intermediate flow prompts.
func NavigationFooter() string {
	return "\n\n0️⃣ Voltar | 9️⃣ Menu"
}

func formatCategories(categories []string) string {
	emojis := map[string]string{
		"bar":         "🍺",
		"restaurante": "🍽️",
		"padaria":     "🥖",
		"cafe":        "☕",
		"lanchonete":  "🍔",
		"outro":       "📋",
	}
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		emoji, ok := emojis[c]
		if !ok {
			emoji = "📋"
		}
		parts = append(parts, emoji+" "+capitalize(c))
	}
	return strings.Join(parts, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package template

import (
	"fmt"

	"github.com/Steffany-Martins/botCheckin/internal/model"
)

// RegistrationWelcome opens the flow and asks for the full name.
func RegistrationWelcome() string {
	return "👋 *Ola! Bem-vindo ao BotCheckin!*\n\n" +
		"Vejo que você ainda não está cadastrado.\n" +
		"Vamos fazer seu cadastro em *4 passos simples*! 😊\n\n" +
		"📝 *PASSO 1 de 4*\n" +
		"Por favor, me diga seu *nome completo*:\n\n" +
		"💡 _Exemplo: João Silva_\n\n" +
		"0️⃣ Cancelar cadastro"
}

// RegistrationAskRole asks for the access level after the name was accepted.
func RegistrationAskRole(name string) string {
	return fmt.Sprintf("✅ Prazer em conhecê-lo(a), *%s*!\n\n"+
		"📝 *PASSO 2 de 4*\n"+
		"Agora, selecione seu tipo de acesso:\n\n"+
		"1️⃣ *Funcionário* - Fazer check-in/out\n"+
		"2️⃣ *Gerente* - Gerenciar horários da equipe\n"+
		"3️⃣ *Supervisor* - Acompanhar equipe\n\n"+
		"💡 Envie o número (1, 2 ou 3)\n\n"+
		"0️⃣ Voltar | 9️⃣ Cancelar cadastro", name)
}

// RegistrationAskCategories asks for the work categories.
func RegistrationAskCategories(name string) string {
	return fmt.Sprintf("🎯 *PASSO 3 de 4*\n"+
		"Ótimo, %s! Agora me diga em qual(is) categoria(s) você trabalha:\n\n"+
		"1️⃣ Bar 🍺\n"+
		"2️⃣ Restaurante 🍽️\n"+
		"3️⃣ Padaria 🥖\n"+
		"4️⃣ Café ☕\n"+
		"5️⃣ Lanchonete 🍔\n"+
		"6️⃣ Outro\n\n"+
		"💡 _Você pode escolher múltiplas categorias!_\n"+
		"_Exemplos:_ \"1\" ou \"1,2\" ou \"1 3 5\"\n\n"+
		"0️⃣ Voltar | 9️⃣ Cancelar cadastro", name)
}

// RegistrationAskPassword asks admin roles for the authorization password.
func RegistrationAskPassword(role model.Role) string {
	return fmt.Sprintf("🔐 *PASSO 4 de 4*\n"+
		"Para cargos administrativos (%s), é necessária uma senha de autorização.\n\n"+
		"Por favor, *envie a senha* fornecida pela empresa:\n\n"+
		"💡 _Se você não possui a senha, entre em contato com seu gerente_\n\n"+
		"0️⃣ Voltar | 9️⃣ Cancelar cadastro", role.Label())
}

// RegistrationInvalidName rejects names shorter than two characters or
// colliding with a command keyword.
func RegistrationInvalidName() string {
	return "❌ *Nome inválido*\n\n" +
		"Por favor, digite um nome válido com 2 a 50 caracteres.\n\n" +
		"💡 _Exemplo: Maria Santos_"
}

// RegistrationInvalidRole re-prompts the role step.
func RegistrationInvalidRole() string {
	return "❌ *Opção inválida*\n\n" +
		"Por favor, escolha uma das opções:\n\n" +
		"1️⃣ Funcionário\n" +
		"2️⃣ Gerente\n" +
		"3️⃣ Supervisor\n\n" +
		"Envie apenas o *número* (1, 2 ou 3):"
}

// RegistrationInvalidCategory re-prompts the category step.
func RegistrationInvalidCategory() string {
	return "❌ *Categoria inválida*\n\n" +
		"Por favor, escolha pelo menos uma categoria válida:\n\n" +
		"1️⃣ Bar\n" +
		"2️⃣ Restaurante\n" +
		"3️⃣ Padaria\n" +
		"4️⃣ Café\n" +
		"5️⃣ Lanchonete\n" +
		"6️⃣ Outro\n\n" +
		"💡 _Pode escolher várias:_ \"1,2,3\""
}

// RegistrationWrongPassword re-prompts after a failed admin password.
func RegistrationWrongPassword() string {
	return "🔒 *Senha incorreta*\n\n" +
		"Por favor, tente novamente ou entre em contato com seu gerente para obter a senha correta.\n\n" +
		"💡 _Digite a senha ou envie CANCELAR para desistir_"
}

// UserAlreadyExists answers a REGISTER attempt from a known number.
func UserAlreadyExists(name string, role model.Role) string {
	return fmt.Sprintf("👤 *Ola, %s!*\n\n"+
		"✅ Você já está cadastrado como *%s*!\n\n"+
		"9️⃣ Ver menu principal", name, role.Label())
}

// RegisterPrompt answers the menu token from an unregistered number without
// opening a registration flow.
func RegisterPrompt() string {
	return "👋 Olá! Para acessar o menu, você precisa se cadastrar primeiro.\n\n" +
		"Envie qualquer mensagem para começar o cadastro."
}

// AdminPasswordRequired answers a one-shot REGISTER for a privileged role
// without a valid company password.
func AdminPasswordRequired() string {
	return "🔒 *Senha de Admin Necessária*\n\n" +
		"Para registrar como manager ou supervisor, você precisa da senha administrativa.\n\n" +
		"💡 _Formato:_ REGISTER Nome manager SENHA"
}

// RegistrationCancelled confirms a user-initiated abort.
func RegistrationCancelled() string {
	return "❌ *Cadastro cancelado*\n\n" +
		"Tudo bem! Quando quiser se cadastrar, é só me enviar uma mensagem novamente! 😊"
}

// RegistrationExpired is sent lazily when an abandoned flow is touched.
func RegistrationExpired() string {
	return "⏱️ *Tempo esgotado*\n\n" +
		"O processo de cadastro expirou por inatividade.\n\n" +
		"Para começar novamente, envie qualquer mensagem! 😊"
}

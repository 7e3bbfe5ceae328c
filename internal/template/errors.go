package template

// NotAuthenticated nudges an unauthenticated known user toward login.
func NotAuthenticated() string {
	return "🔒 *Você não está logado*\n\n" +
		"💡 Para acessar o sistema:\n" +
		"• Staff: envie *MENU*\n" +
		"• Admin: envie *LOGIN SENHA*"
}

// UnknownCommand answers digits or words outside the caller's menu.
func UnknownCommand() string {
	return "🤔 *Não entendi*\n\n" +
		"Envie *9* para ver o menu de opções."
}

// WrongLoginPassword answers a failed LOGIN attempt.
func WrongLoginPassword() string {
	return "🔒 *Senha incorreta*\n\n" +
		"Verifique a senha e tente novamente.\n\n" +
		"💡 _Formato: LOGIN suasenha_"
}

// InvalidPhone answers webhooks whose sender cannot be normalized.
func InvalidPhone() string {
	return "❌ *Número inválido*\n\n" +
		"Não foi possível identificar seu número de telefone."
}

// UserNotFound answers admin commands aimed at an id that matches no user.
func UserNotFound() string {
	return "❌ Usuário não encontrado. Verifique o ID e tente novamente."
}

// InternalError is the generic failure reply. Details stay in the logs.
func InternalError() string {
	return "😓 *Algo deu errado*\n\n" +
		"Tente novamente em alguns instantes."
}

package internal

type Configurer interface {
	Configure(envs map[string]string) error
}

package appcontext

// Env tells the app graph which entrypoint is running it.
type Env int

const (
	// EnvServer serves the HTTP API and runs the workers.
	EnvServer Env = iota
	// EnvCLI only builds infrastructure, repositories and services, for
	// one-shot commands such as migrate.
	EnvCLI
)

func (e Env) String() string {
	switch e {
	case EnvServer:
		return "server"
	case EnvCLI:
		return "cli"
	default:
		return "unknown"
	}
}

type Ctx struct {
	Env Env
}

func Declare(env Env) Ctx {
	return Ctx{
		Env: env,
	}
}

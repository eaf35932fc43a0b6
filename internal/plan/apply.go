package plan

// kubectlBinary is the cluster CLI used for deployments.
const kubectlBinary = "kubectl"

// Apply builds the single cluster-apply invocation for a rendered manifest
// directory. When kubeconfig is set, the flag is inserted immediately after
// the executable name.
func Apply(dir, kubeconfig string) Plan {
	argv := []string{kubectlBinary}
	if kubeconfig != "" {
		argv = append(argv, "--kubeconfig", kubeconfig)
	}
	argv = append(argv, "apply", "-f", dir)
	return Plan{Command(argv)}
}

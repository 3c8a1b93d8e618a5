// Command vsop loads, evaluates, truncates and exports VSOP87 models.
package main

func main() {
	Execute()
}

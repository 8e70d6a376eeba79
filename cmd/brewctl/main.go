// brewctl is the offline tooling for the potion brewing agent: it captures
// games, archives them in SQLite and replays them against the engine.
package main

func main() {
	Execute()
}

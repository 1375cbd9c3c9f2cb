package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"vehicle-catalog/internal/catalog"
	"vehicle-catalog/internal/config"
	"vehicle-catalog/internal/images"
	"vehicle-catalog/internal/model"
	"vehicle-catalog/internal/storage"
)

// catalog-cli is a small operator tool for maintaining a catalog without the
// HTTP surface: listing, seeding and deleting vehicle records through the
// same store and service the server uses.

func main() {
	// --- Command Parsing using 'flag' package ---
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)

	// Shared flag across subcommands.
	configPaths := map[*flag.FlagSet]*string{}
	for _, fs := range []*flag.FlagSet{listCmd, addCmd, deleteCmd, seedCmd} {
		configPaths[fs] = fs.String("config", "", "Path to config file (optional)")
	}

	// Flags for add command
	addMake := addCmd.String("make", "", "Vehicle make (required)")
	addModel := addCmd.String("model", "", "Vehicle model (required)")
	addYear := addCmd.Int("year", 0, "Model year (required)")
	addPrice := addCmd.Float64("price", 0, "Price (required)")
	addMileage := addCmd.Float64("mileage", 0, "Mileage (required)")
	addDesc := addCmd.String("description", "", "Listing description (required)")
	addFeatured := addCmd.Bool("featured", false, "Mark the listing as featured")

	// Flags for delete command
	deleteID := deleteCmd.Int64("id", 0, "Id of the vehicle to delete (required)")

	// Flags for seed command
	seedFile := seedCmd.String("file", "", "Path to a JSON file holding an array of vehicles (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		listCmd.Parse(os.Args[2:])
		svc, closeStore := setup(*configPaths[listCmd])
		defer closeStore()
		handleList(svc)
	case "add":
		addCmd.Parse(os.Args[2:])
		if *addMake == "" || *addModel == "" {
			fmt.Println("Error: -make and -model flags are required for add command")
			addCmd.Usage()
			os.Exit(1)
		}
		svc, closeStore := setup(*configPaths[addCmd])
		defer closeStore()
		handleAdd(svc, model.VehicleInput{
			Make:        *addMake,
			Model:       *addModel,
			Year:        *addYear,
			Price:       *addPrice,
			Mileage:     *addMileage,
			Description: *addDesc,
			Featured:    *addFeatured,
		})
	case "delete":
		deleteCmd.Parse(os.Args[2:])
		if *deleteID == 0 {
			fmt.Println("Error: -id flag is required for delete command")
			deleteCmd.Usage()
			os.Exit(1)
		}
		svc, closeStore := setup(*configPaths[deleteCmd])
		defer closeStore()
		handleDelete(svc, *deleteID)
	case "seed":
		seedCmd.Parse(os.Args[2:])
		if *seedFile == "" {
			fmt.Println("Error: -file flag is required for seed command")
			seedCmd.Usage()
			os.Exit(1)
		}
		svc, closeStore := setup(*configPaths[seedCmd])
		defer closeStore()
		handleSeed(svc, *seedFile)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// setup wires config, store, ingestor and service the same way the server does.
func setup(configPath string) (*catalog.Service, func()) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	var store storage.VehicleStore
	switch cfg.StoreBackend {
	case config.BackendBolt:
		store, err = storage.NewBoltStore(cfg.StorePath)
	default:
		store, err = storage.NewJSONStore(cfg.StorePath)
	}
	if err != nil {
		fmt.Printf("Error initializing store: %v\n", err)
		os.Exit(1)
	}

	ingestor, err := images.NewIngestor(cfg.UploadsDir, logger)
	if err != nil {
		store.Close()
		fmt.Printf("Error initializing image ingestor: %v\n", err)
		os.Exit(1)
	}

	return catalog.NewService(store, ingestor, logger), func() { store.Close() }
}

func handleList(svc *catalog.Service) {
	vehicles, err := svc.List()
	if err != nil {
		fmt.Printf("Error listing vehicles: %v\n", err)
		os.Exit(1)
	}
	if len(vehicles) == 0 {
		fmt.Println("No vehicles in the catalog.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMAKE\tMODEL\tYEAR\tPRICE\tMILEAGE\tFEATURED\tIMAGES")
	for _, v := range vehicles {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.2f\t%.0f\t%v\t%d\n",
			v.ID, v.Make, v.Model, v.Year, v.Price, v.Mileage, v.Featured, len(v.Images))
	}
	tw.Flush()
}

func handleAdd(svc *catalog.Service, input model.VehicleInput) {
	v, err := svc.Create(input)
	if err != nil {
		fmt.Printf("Error creating vehicle: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created vehicle %d: %d %s %s\n", v.ID, v.Year, v.Make, v.Model)
}

func handleDelete(svc *catalog.Service, id int64) {
	if err := svc.Delete(id); err != nil {
		fmt.Printf("Error deleting vehicle %d: %v\n", id, err)
		os.Exit(1)
	}
	fmt.Printf("Deleted vehicle %d\n", id)
}

func handleSeed(svc *catalog.Service, path string) {
	inputs, err := readSeedFile(path)
	if err != nil {
		fmt.Printf("Error reading seed file: %v\n", err)
		os.Exit(1)
	}

	created, err := seedCatalog(svc, inputs)
	if err != nil {
		fmt.Printf("Error seeding catalog (%d of %d created): %v\n", created, len(inputs), err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d vehicles from %s\n", created, path)
}

// readSeedFile parses a seed file: a JSON array of vehicle create payloads,
// the same shape POST /api/vehicles accepts.
func readSeedFile(path string) ([]model.VehicleInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %q: %w", path, err)
	}
	var inputs []model.VehicleInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %q: %w", path, err)
	}
	return inputs, nil
}

// seedCatalog bulk-loads vehicles through the service, one create per entry,
// stopping at the first failure. Returns how many records were created.
func seedCatalog(svc *catalog.Service, inputs []model.VehicleInput) (int, error) {
	for i, input := range inputs {
		if _, err := svc.Create(input); err != nil {
			return i, fmt.Errorf("entry %d (%s %s): %w", i, input.Make, input.Model, err)
		}
	}
	return len(inputs), nil
}

func printUsage() {
	fmt.Println("Usage: catalog-cli <command> [flags]")
	fmt.Println("Commands:")
	fmt.Println("  list     List all vehicles in the catalog")
	fmt.Println("  add      Add a vehicle (-make, -model, -year, -price, -mileage, -description)")
	fmt.Println("  delete   Delete a vehicle by id (-id)")
	fmt.Println("  seed     Bulk-load vehicles from a JSON file (-file)")
	fmt.Println("Each command accepts -config pointing at a config file.")
}

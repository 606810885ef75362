package block

// Static block database. Entries keyed on (id, 0) describe the block
// kind; additional (id, data) entries refine the description for data
// values that change a block's appearance.

type entry struct {
	name        string
	description string
}

const woolID = 35

var table = map[Block]entry{
	{ID: 0}:   {"air", "Air"},
	{ID: 1}:   {"stone", "Stone"},
	{ID: 2}:   {"grass", "Grass"},
	{ID: 3}:   {"dirt", "Dirt"},
	{ID: 4}:   {"cobblestone", "Cobblestone"},
	{ID: 5}:   {"wood_planks", "Wooden Planks"},
	{ID: 6}:   {"sapling", "Sapling"},
	{ID: 7}:   {"bedrock", "Bedrock"},
	{ID: 8}:   {"water_flowing", "Water (Flowing)"},
	{ID: 9}:   {"water_stationary", "Water (Stationary)"},
	{ID: 10}:  {"lava_flowing", "Lava (Flowing)"},
	{ID: 11}:  {"lava_stationary", "Lava (Stationary)"},
	{ID: 12}:  {"sand", "Sand"},
	{ID: 13}:  {"gravel", "Gravel"},
	{ID: 14}:  {"gold_ore", "Gold Ore"},
	{ID: 15}:  {"iron_ore", "Iron Ore"},
	{ID: 16}:  {"coal_ore", "Coal Ore"},
	{ID: 17}:  {"wood", "Wood"},
	{ID: 18}:  {"leaves", "Leaves"},
	{ID: 20}:  {"glass", "Glass"},
	{ID: 21}:  {"lapis_lazuli_ore", "Lapis Lazuli Ore"},
	{ID: 22}:  {"lapis_lazuli_block", "Lapis Lazuli Block"},
	{ID: 24}:  {"sandstone", "Sandstone"},
	{ID: 26}:  {"bed", "Bed"},
	{ID: 30}:  {"cobweb", "Cobweb"},
	{ID: 31}:  {"grass_tall", "Tall Grass"},
	{ID: 35}:  {"wool", "White Wool"},
	{ID: 35, Data: 1}:  {"wool", "Orange Wool"},
	{ID: 35, Data: 2}:  {"wool", "Magenta Wool"},
	{ID: 35, Data: 3}:  {"wool", "Light Blue Wool"},
	{ID: 35, Data: 4}:  {"wool", "Yellow Wool"},
	{ID: 35, Data: 5}:  {"wool", "Lime Wool"},
	{ID: 35, Data: 6}:  {"wool", "Pink Wool"},
	{ID: 35, Data: 7}:  {"wool", "Grey Wool"},
	{ID: 35, Data: 8}:  {"wool", "Light Grey Wool"},
	{ID: 35, Data: 9}:  {"wool", "Cyan Wool"},
	{ID: 35, Data: 10}: {"wool", "Purple Wool"},
	{ID: 35, Data: 11}: {"wool", "Blue Wool"},
	{ID: 35, Data: 12}: {"wool", "Brown Wool"},
	{ID: 35, Data: 13}: {"wool", "Green Wool"},
	{ID: 35, Data: 14}: {"wool", "Red Wool"},
	{ID: 35, Data: 15}: {"wool", "Black Wool"},
	{ID: 37}:  {"flower_yellow", "Dandelion"},
	{ID: 38}:  {"flower_cyan", "Cyan Flower"},
	{ID: 39}:  {"mushroom_brown", "Brown Mushroom"},
	{ID: 40}:  {"mushroom_red", "Red Mushroom"},
	{ID: 41}:  {"gold_block", "Block of Gold"},
	{ID: 42}:  {"iron_block", "Block of Iron"},
	{ID: 43}:  {"stone_slab_double", "Double Stone Slab"},
	{ID: 44}:  {"stone_slab", "Stone Slab"},
	{ID: 45}:  {"brick_block", "Bricks"},
	{ID: 46}:  {"tnt", "TNT"},
	{ID: 47}:  {"bookshelf", "Bookshelf"},
	{ID: 48}:  {"moss_stone", "Moss Stone"},
	{ID: 49}:  {"obsidian", "Obsidian"},
	{ID: 50}:  {"torch", "Torch"},
	{ID: 51}:  {"fire", "Fire"},
	{ID: 53}:  {"stairs_wood", "Wooden Stairs"},
	{ID: 54}:  {"chest", "Chest"},
	{ID: 56}:  {"diamond_ore", "Diamond Ore"},
	{ID: 57}:  {"diamond_block", "Block of Diamond"},
	{ID: 58}:  {"crafting_table", "Crafting Table"},
	{ID: 60}:  {"farmland", "Farmland"},
	{ID: 61}:  {"furnace_inactive", "Furnace"},
	{ID: 62}:  {"furnace_active", "Burning Furnace"},
	{ID: 64}:  {"door_wood", "Wooden Door"},
	{ID: 65}:  {"ladder", "Ladder"},
	{ID: 67}:  {"stairs_cobblestone", "Cobblestone Stairs"},
	{ID: 71}:  {"door_iron", "Iron Door"},
	{ID: 73}:  {"redstone_ore", "Redstone Ore"},
	{ID: 78}:  {"snow", "Snow"},
	{ID: 79}:  {"ice", "Ice"},
	{ID: 80}:  {"snow_block", "Snow Block"},
	{ID: 81}:  {"cactus", "Cactus"},
	{ID: 82}:  {"clay", "Clay"},
	{ID: 83}:  {"sugar_cane", "Sugar Cane"},
	{ID: 85}:  {"fence", "Fence"},
	{ID: 89}:  {"glowstone_block", "Glowstone"},
	{ID: 95}:  {"bedrock_invisible", "Invisible Bedrock"},
	{ID: 98}:  {"stone_brick", "Stone Bricks"},
	{ID: 102}: {"glass_pane", "Glass Pane"},
	{ID: 103}: {"melon", "Melon"},
	{ID: 107}: {"fence_gate", "Fence Gate"},
	{ID: 246}: {"glowing_obsidian", "Glowing Obsidian"},
	{ID: 247}: {"nether_reactor_core", "Nether Reactor Core"},
}

// idsByName maps every name in the table (data 0 entries) back to its id.
var idsByName = func() map[string]uint8 {
	m := make(map[string]uint8, len(table))
	for b, e := range table {
		if b.Data == 0 {
			m[e.name] = b.ID
		}
	}
	return m
}()

// rgb is a color in the wool palette.
type rgb struct {
	r, g, b uint8
}

func (c rgb) dist(r, g, b uint8) int {
	dr := int(c.r) - int(r)
	dg := int(c.g) - int(g)
	db := int(c.b) - int(b)
	return dr*dr + dg*dg + db*db
}

// woolColors holds the render colors of the sixteen wool variants,
// indexed by data value.
var woolColors = [16]rgb{
	{221, 221, 221}, // white
	{219, 125, 62},  // orange
	{179, 80, 188},  // magenta
	{107, 138, 201}, // light blue
	{177, 166, 39},  // yellow
	{65, 174, 56},   // lime
	{208, 132, 153}, // pink
	{64, 64, 64},    // grey
	{154, 161, 161}, // light grey
	{46, 110, 137},  // cyan
	{126, 61, 181},  // purple
	{46, 56, 141},   // blue
	{79, 50, 31},    // brown
	{53, 70, 27},    // green
	{150, 52, 48},   // red
	{25, 22, 22},    // black
}

// Blocks present in the Pi Edition world, named after the reference
// client's constants.
var (
	Air               = Block{ID: 0}
	Stone             = Block{ID: 1}
	Grass             = Block{ID: 2}
	Dirt              = Block{ID: 3}
	Cobblestone       = Block{ID: 4}
	WoodPlanks        = Block{ID: 5}
	Bedrock           = Block{ID: 7}
	Water             = Block{ID: 8}
	WaterStationary   = Block{ID: 9}
	Lava              = Block{ID: 10}
	Sand              = Block{ID: 12}
	Gravel            = Block{ID: 13}
	GoldOre           = Block{ID: 14}
	IronOre           = Block{ID: 15}
	CoalOre           = Block{ID: 16}
	Wood              = Block{ID: 17}
	Leaves            = Block{ID: 18}
	Glass             = Block{ID: 20}
	Sandstone         = Block{ID: 24}
	Wool              = Block{ID: 35}
	GoldBlock         = Block{ID: 41}
	IronBlock         = Block{ID: 42}
	TNT               = Block{ID: 46}
	Obsidian          = Block{ID: 49}
	Torch             = Block{ID: 50}
	Fire              = Block{ID: 51}
	DiamondOre        = Block{ID: 56}
	DiamondBlock      = Block{ID: 57}
	CraftingTable     = Block{ID: 58}
	Snow              = Block{ID: 78}
	Ice               = Block{ID: 79}
	Cactus            = Block{ID: 81}
	GlowstoneBlock    = Block{ID: 89}
	GlowingObsidian   = Block{ID: 246}
	NetherReactorCore = Block{ID: 247}
)
